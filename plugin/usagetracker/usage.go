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
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Snapshot is the usage of a conversation at a single point in time. It is
// recomputed fresh for every model call and never persisted.
type Snapshot struct {
	// TotalTokens is the token count over every message in the transcript.
	TotalTokens int

	// AssistantTokens is the token count restricted to assistant messages.
	AssistantTokens int

	// TurnCount is the number of complete user→assistant exchanges.
	TurnCount int

	// ContextLimit is the resolved context window for ModelID.
	ContextLimit int

	// ModelID is the model the transcript is addressed to.
	ModelID string
}

// ComputeUsage walks the transcript once and produces a Snapshot. Tokenizer
// failures degrade the affected message to a count of zero; they never abort
// the computation.
//
// A turn is one user message paired with a subsequent assistant reply, so
// TurnCount is the number of assistant messages capped by the number of
// user messages seen before each of them. Tool-call/tool-result contents
// are counted towards token totals but not towards turns.
func ComputeUsage(contents []*genai.Content, modelID string, contextLimit int, tok Tokenizer) Snapshot {
	snap := Snapshot{
		ContextLimit: contextLimit,
		ModelID:      modelID,
	}

	userMessages := 0
	for _, content := range contents {
		if content == nil {
			continue
		}

		tokens := countContentTokens(content, tok)
		snap.TotalTokens += tokens

		assistant := isAssistantRole(content.Role)
		if assistant {
			snap.AssistantTokens += tokens
		}

		if isToolTraffic(content) {
			continue
		}
		if assistant {
			if snap.TurnCount < userMessages {
				snap.TurnCount++
			}
		} else if content.Role == "user" {
			userMessages++
		}
	}

	return snap
}

// countContentTokens sums the token counts of every part of a Content
// entry: Text, FunctionCall (name + args), and FunctionResponse (name +
// response).
func countContentTokens(content *genai.Content, tok Tokenizer) int {
	total := 0
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			total += countText(part.Text, tok)
		}
		if part.FunctionCall != nil {
			total += countText(part.FunctionCall.Name, tok)
			for k, v := range part.FunctionCall.Args {
				total += countText(k, tok)
				total += countText(fmt.Sprintf("%v", v), tok)
			}
		}
		if part.FunctionResponse != nil {
			total += countText(part.FunctionResponse.Name, tok)
			total += countText(fmt.Sprintf("%v", part.FunctionResponse.Response), tok)
		}
	}
	return total
}

// countText counts one piece of text, degrading failures to zero.
func countText(text string, tok Tokenizer) int {
	if text == "" {
		return 0
	}
	n, err := tok.Count(text)
	if err != nil {
		slog.Debug("UsageTracker: tokenization degraded to zero", "error", err)
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// isAssistantRole reports whether a role names the model side of the
// conversation. ADK transcripts use "model"; other hosts use "assistant".
func isAssistantRole(role string) bool {
	return role == "model" || role == "assistant"
}

// isToolTraffic reports whether a Content entry consists only of tool
// calls/results, i.e. carries no displayable text.
func isToolTraffic(content *genai.Content) bool {
	sawToolPart := false
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			return false
		}
		if part.FunctionCall != nil || part.FunctionResponse != nil {
			sawToolPart = true
		}
	}
	return sawToolPart
}
