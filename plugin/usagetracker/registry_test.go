// Copyright 2025 achetronic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package usagetracker

import "testing"

// ---------------------------------------------------------------------------
// Tests: StaticRegistry
// ---------------------------------------------------------------------------

func TestStaticRegistry_Lookup(t *testing.T) {
	r := NewStaticRegistry(map[string]int{"gpt-4o": 128_000})

	size, ok := r.ContextWindow("gpt-4o")
	if !ok || size != 128_000 {
		t.Errorf("ContextWindow(gpt-4o) = (%d, %v), want (128000, true)", size, ok)
	}

	if _, ok := r.ContextWindow("unknown"); ok {
		t.Error("unknown models should report ok=false")
	}
}

func TestStaticRegistry_DropsNonPositiveEntries(t *testing.T) {
	r := NewStaticRegistry(map[string]int{
		"good": 8_000,
		"zero": 0,
		"neg":  -1,
	})

	if _, ok := r.ContextWindow("zero"); ok {
		t.Error("zero-sized entries should be dropped")
	}
	if _, ok := r.ContextWindow("neg"); ok {
		t.Error("negative entries should be dropped")
	}
	if size, ok := r.ContextWindow("good"); !ok || size != 8_000 {
		t.Errorf("ContextWindow(good) = (%d, %v), want (8000, true)", size, ok)
	}
}

func TestDefaultStaticRegistry_KnowsCommonModels(t *testing.T) {
	r := DefaultStaticRegistry()

	tests := []struct {
		modelID string
		want    int
	}{
		{"gpt-4", 8_192},
		{"gpt-4o", 128_000},
		{"claude-2.1", 200_000},
		{"mistral-large-latest", 32_768},
	}

	for _, tc := range tests {
		size, ok := r.ContextWindow(tc.modelID)
		if !ok || size != tc.want {
			t.Errorf("ContextWindow(%s) = (%d, %v), want (%d, true)", tc.modelID, size, ok, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests: ChainRegistry
// ---------------------------------------------------------------------------

func TestChainRegistry_FirstMatchWins(t *testing.T) {
	first := NewStaticRegistry(map[string]int{"shared": 1_000})
	second := NewStaticRegistry(map[string]int{"shared": 2_000, "only-second": 3_000})

	chain := ChainRegistry{first, second}

	if size, _ := chain.ContextWindow("shared"); size != 1_000 {
		t.Errorf("ContextWindow(shared) = %d, want 1000 (first registry wins)", size)
	}
	if size, ok := chain.ContextWindow("only-second"); !ok || size != 3_000 {
		t.Errorf("ContextWindow(only-second) = (%d, %v), want (3000, true)", size, ok)
	}
	if _, ok := chain.ContextWindow("nowhere"); ok {
		t.Error("models absent from every registry should report ok=false")
	}
}

func TestChainRegistry_SkipsNilEntries(t *testing.T) {
	chain := ChainRegistry{nil, NewStaticRegistry(map[string]int{"m": 500})}

	if size, ok := chain.ContextWindow("m"); !ok || size != 500 {
		t.Errorf("ContextWindow(m) = (%d, %v), want (500, true)", size, ok)
	}
}

// ---------------------------------------------------------------------------
// Tests: CrushRegistry
// ---------------------------------------------------------------------------

func TestCrushRegistry_UnknownModel(t *testing.T) {
	r := NewCrushRegistry()

	if _, ok := r.ContextWindow("definitely-not-a-real-model-id"); ok {
		t.Error("unknown models should report ok=false")
	}
}
