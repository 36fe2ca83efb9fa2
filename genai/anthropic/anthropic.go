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

// Package anthropic adapts the Anthropic Messages API to the ADK model.LLM
// interface. Text content and system instructions are supported; responses
// carry the provider's exact token usage so downstream plugins can report
// real counts.
package anthropic

import (
	"context"
	"fmt"
	"iter"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const defaultMaxTokens = 4096

// Config holds the settings for the Anthropic-backed LLM.
type Config struct {
	// APIKey is the Anthropic API key.
	APIKey string

	// ModelName is the model to call, e.g. "claude-sonnet-4-5-20250929".
	ModelName string

	// MaxTokens caps the response length (default: 4096).
	MaxTokens int64
}

// LLM implements model.LLM over the Anthropic Messages API.
type LLM struct {
	client    anthropicsdk.Client
	modelName string
	maxTokens int64
}

// New creates an Anthropic-backed LLM.
func New(cfg Config) *LLM {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &LLM{
		client:    anthropicsdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		modelName: cfg.ModelName,
		maxTokens: maxTokens,
	}
}

// Name returns the configured model name.
func (l *LLM) Name() string {
	return l.modelName
}

// GenerateContent calls the Messages API once and yields a single complete
// response. The stream flag is ignored; callers that need token-by-token
// streaming should use the provider SDK directly.
func (l *LLM) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		params := anthropicsdk.MessageNewParams{
			Model:     anthropicsdk.Model(l.modelName),
			MaxTokens: l.maxTokens,
			Messages:  convertMessages(req.Contents),
		}

		if system := systemText(req); system != "" {
			params.System = []anthropicsdk.TextBlockParam{{Text: system}}
		}
		if req.Config != nil && req.Config.MaxOutputTokens > 0 {
			params.MaxTokens = int64(req.Config.MaxOutputTokens)
		}

		msg, err := l.client.Messages.New(ctx, params)
		if err != nil {
			yield(nil, fmt.Errorf("anthropic call failed: %w", err))
			return
		}

		var text strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				text.WriteString(block.Text)
			}
		}

		yield(&model.LLMResponse{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text.String()}},
			},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     int32(msg.Usage.InputTokens),
				CandidatesTokenCount: int32(msg.Usage.OutputTokens),
				TotalTokenCount:      int32(msg.Usage.InputTokens + msg.Usage.OutputTokens),
			},
		}, nil)
	}
}

// convertMessages flattens genai Contents into Anthropic messages. Only
// text parts are forwarded; tool traffic is the host's responsibility.
func convertMessages(contents []*genai.Content) []anthropicsdk.MessageParam {
	messages := make([]anthropicsdk.MessageParam, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}

		var text strings.Builder
		for _, part := range content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		if text.Len() == 0 {
			continue
		}

		block := anthropicsdk.NewTextBlock(text.String())
		if content.Role == "model" || content.Role == "assistant" {
			messages = append(messages, anthropicsdk.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropicsdk.NewUserMessage(block))
		}
	}
	return messages
}

// systemText extracts the system instruction from the request, if any.
func systemText(req *model.LLMRequest) string {
	if req.Config == nil || req.Config.SystemInstruction == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range req.Config.SystemInstruction.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}

// Ensure interface is implemented
var _ model.LLM = (*LLM)(nil)
