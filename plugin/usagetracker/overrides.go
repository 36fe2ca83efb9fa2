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
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
)

// FallbackContextWindow is the context window assumed for models that are
// absent from both the override table and the registry. Keeping it small is
// deliberate: an unknown model should warn early rather than never.
const FallbackContextWindow = 4096

// modelIDPrefixes are provider prefixes stripped during normalisation, so
// that e.g. "anthropic/claude-2.1" matches a "claude-2.1" table entry.
var modelIDPrefixes = []string{
	"openai/",
	"anthropic/",
	"google/",
	"meta-llama/",
	"mistralai/",
	"ollama/",
}

// NormalizeModelID lowercases and trims a model ID and strips a known
// provider prefix, if any.
func NormalizeModelID(modelID string) string {
	name := strings.ToLower(strings.TrimSpace(modelID))
	for _, p := range modelIDPrefixes {
		if strings.HasPrefix(name, p) {
			return name[len(p):]
		}
	}
	return name
}

// OverrideCache holds the parsed user-supplied override table together with
// a fingerprint of the source text it was parsed from. Refresh re-parses
// only when the text actually changed, so calling it on every request is
// cheap. The zero value is ready to use.
type OverrideCache struct {
	fingerprint string
	table       map[string]int
}

// Refresh parses the given plaintext override table unless its fingerprint
// matches the last parsed text. It reports whether a re-parse happened.
//
// Each line has the form "<model-id> <context-size>". Lines that do not
// parse to a positive integer size are skipped individually; they never
// abort parsing of the remaining lines. Later lines override earlier ones
// for the same model ID.
func (c *OverrideCache) Refresh(text string) bool {
	digest := fingerprint(text)
	if digest == c.fingerprint {
		return false
	}

	c.table = parseOverrides(text)
	c.fingerprint = digest
	return true
}

// Lookup returns the override window for a model ID, if present.
func (c *OverrideCache) Lookup(modelID string) (int, bool) {
	size, ok := c.table[modelID]
	return size, ok
}

// Len returns the number of parsed override entries.
func (c *OverrideCache) Len() int {
	return len(c.table)
}

func fingerprint(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func parseOverrides(text string) map[string]int {
	table := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil || size <= 0 {
			continue
		}
		table[fields[0]] = size
	}
	return table
}

// ResolveContextWindow returns the context window for a model ID: the
// override table wins (raw ID first, then normalised), then the registry,
// then FallbackContextWindow. It is total: every (modelID, overrides,
// registry) combination yields a positive integer, and unknown models never
// raise an error.
func ResolveContextWindow(modelID string, overrides *OverrideCache, registry ModelRegistry) int {
	if modelID == "" {
		return FallbackContextWindow
	}

	normalised := NormalizeModelID(modelID)

	if overrides != nil {
		if size, ok := overrides.Lookup(modelID); ok {
			return size
		}
		if size, ok := overrides.Lookup(normalised); ok {
			return size
		}
	}

	if registry != nil {
		if size, ok := registry.ContextWindow(modelID); ok && size > 0 {
			return size
		}
		if size, ok := registry.ContextWindow(normalised); ok && size > 0 {
			return size
		}
	}

	return FallbackContextWindow
}
