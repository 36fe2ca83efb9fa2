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

import (
	"log/slog"

	"charm.land/catwalk/pkg/catwalk"
	"charm.land/catwalk/pkg/embedded"
)

// CrushRegistry implements ModelRegistry using catwalk's embedded model
// database. All model metadata (context windows, max tokens, costs) is
// compiled into the binary — no network calls, no background goroutines.
//
// Usage:
//
//	registry := usagetracker.NewCrushRegistry()
//	tracker := usagetracker.New(registry)
type CrushRegistry struct {
	models map[string]catwalk.Model
}

// NewCrushRegistry creates a registry pre-loaded with every model from
// catwalk's embedded provider database.
func NewCrushRegistry() *CrushRegistry {
	models := make(map[string]catwalk.Model)
	for _, provider := range embedded.GetAll() {
		for _, m := range provider.Models {
			models[m.ID] = m
		}
	}

	slog.Debug("CrushRegistry: loaded models from catwalk", "count", len(models))

	return &CrushRegistry{models: models}
}

// ContextWindow returns the context window size (in tokens) for the given
// model ID, and whether the model exists in the embedded database.
func (r *CrushRegistry) ContextWindow(modelID string) (int, bool) {
	if m, ok := r.models[modelID]; ok && m.ContextWindow > 0 {
		return int(m.ContextWindow), true
	}
	return 0, false
}

// Ensure interface is implemented
var _ ModelRegistry = (*CrushRegistry)(nil)
