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

// Package openai adapts the OpenAI Chat Completions API to the ADK
// model.LLM interface. Text content and system instructions are supported;
// responses carry the provider's exact token usage.
package openai

import (
	"context"
	"fmt"
	"iter"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Config holds the settings for the OpenAI-backed LLM.
type Config struct {
	// APIKey is the OpenAI API key.
	APIKey string

	// ModelName is the model to call, e.g. "gpt-4o".
	ModelName string

	// BaseURL points the client at a compatible endpoint (optional).
	BaseURL string
}

// LLM implements model.LLM over the OpenAI Chat Completions API.
type LLM struct {
	client    openaisdk.Client
	modelName string
}

// New creates an OpenAI-backed LLM.
func New(cfg Config) *LLM {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &LLM{
		client:    openaisdk.NewClient(opts...),
		modelName: cfg.ModelName,
	}
}

// Name returns the configured model name.
func (l *LLM) Name() string {
	return l.modelName
}

// GenerateContent calls the Chat Completions API once and yields a single
// complete response. The stream flag is ignored.
func (l *LLM) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := l.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
			Model:    openaisdk.ChatModel(l.modelName),
			Messages: convertMessages(req),
		})
		if err != nil {
			yield(nil, fmt.Errorf("openai call failed: %w", err))
			return
		}
		if len(resp.Choices) == 0 {
			yield(nil, fmt.Errorf("openai returned no choices"))
			return
		}

		yield(&model.LLMResponse{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: resp.Choices[0].Message.Content}},
			},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     int32(resp.Usage.PromptTokens),
				CandidatesTokenCount: int32(resp.Usage.CompletionTokens),
				TotalTokenCount:      int32(resp.Usage.TotalTokens),
			},
		}, nil)
	}
}

// convertMessages flattens the request into chat messages: an optional
// system message followed by the text of every Content entry.
func convertMessages(req *model.LLMRequest) []openaisdk.ChatCompletionMessageParamUnion {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.Contents)+1)

	if req.Config != nil && req.Config.SystemInstruction != nil {
		var system strings.Builder
		for _, part := range req.Config.SystemInstruction.Parts {
			if part != nil && part.Text != "" {
				system.WriteString(part.Text)
			}
		}
		if system.Len() > 0 {
			messages = append(messages, openaisdk.SystemMessage(system.String()))
		}
	}

	for _, content := range req.Contents {
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

		if content.Role == "model" || content.Role == "assistant" {
			messages = append(messages, openaisdk.AssistantMessage(text.String()))
		} else {
			messages = append(messages, openaisdk.UserMessage(text.String()))
		}
	}

	return messages
}

// Ensure interface is implemented
var _ model.LLM = (*LLM)(nil)
