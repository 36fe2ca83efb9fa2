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

// ModelRegistry provides context window metadata needed by the UsageTracker
// plugin. Implementations can be backed by an embedded database, a static
// map, or anything else; the plugin only depends on this interface.
type ModelRegistry interface {
	// ContextWindow returns the maximum context window size (in tokens) for
	// the given model ID, and whether the model is known to the registry.
	// Returned sizes are always positive when the model is known.
	ContextWindow(modelID string) (int, bool)
}

// defaultContextWindows is the static model table shipped with the plugin.
// It covers common hosted models whose IDs may not match any registry entry
// exactly (older API aliases, provider-prefixed names, etc.).
var defaultContextWindows = map[string]int{
	"gpt-4o":                     128000,
	"gpt-4-turbo":                128000,
	"gpt-4-turbo-preview":        128000,
	"gpt-4-vision-preview":       128000,
	"gpt-4":                      8192,
	"gpt-4-32k":                  32768,
	"gpt-3.5-turbo":              16385,
	"gpt-3.5-turbo-16k":          16385,
	"claude-3-opus-20240229":     200000,
	"claude-3-sonnet-20240229":   200000,
	"claude-3-haiku-20240307":    200000,
	"claude-2.1":                 200000,
	"claude-2.0":                 100000,
	"claude-instant-1.2":         100000,
	"gemini-1.5-pro-latest":      1048576,
	"gemini-1.5-flash-latest":    1048576,
	"gemini-pro":                 30720,
	"gemini-pro-vision":          12288,
	"llama3-70b-8192":            8192,
	"llama3-8b-8192":             8192,
	"llama2-70b-4096":            4096,
	"mistral-large-latest":       32768,
	"mistral-medium-latest":      32768,
	"mistral-small-latest":       32768,
	"mistral-7b-instruct-v0.2":   32768,
	"mixtral-8x7b-instruct-v0.1": 32768,
}

// StaticRegistry implements ModelRegistry over a fixed in-memory table.
type StaticRegistry struct {
	windows map[string]int
}

// NewStaticRegistry creates a registry from the given table. Entries with a
// non-positive window size are dropped.
func NewStaticRegistry(windows map[string]int) *StaticRegistry {
	table := make(map[string]int, len(windows))
	for id, size := range windows {
		if size > 0 {
			table[id] = size
		}
	}
	return &StaticRegistry{windows: table}
}

// DefaultStaticRegistry returns a registry pre-loaded with the built-in
// model table.
func DefaultStaticRegistry() *StaticRegistry {
	return NewStaticRegistry(defaultContextWindows)
}

// ContextWindow returns the context window for the given model ID.
func (r *StaticRegistry) ContextWindow(modelID string) (int, bool) {
	size, ok := r.windows[modelID]
	return size, ok
}

// ChainRegistry combines registries: the first one that knows a model wins.
type ChainRegistry []ModelRegistry

// DefaultRegistry returns the registry the plugin uses when none is given:
// catwalk's embedded database, falling back to the built-in static table.
func DefaultRegistry() ChainRegistry {
	return ChainRegistry{NewCrushRegistry(), DefaultStaticRegistry()}
}

// ContextWindow queries each registry in order.
func (c ChainRegistry) ContextWindow(modelID string) (int, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if size, ok := r.ContextWindow(modelID); ok && size > 0 {
			return size, true
		}
	}
	return 0, false
}

// Ensure interfaces are implemented
var _ ModelRegistry = (*StaticRegistry)(nil)
var _ ModelRegistry = (ChainRegistry)(nil)
