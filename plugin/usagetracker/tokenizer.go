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
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens in a piece of text. Counts are non-negative and
// deterministic for identical input. Callers treat a failed count as zero:
// the tracker is a best-effort advisory display, not billing-grade
// accounting.
type Tokenizer interface {
	Count(text string) (int, error)
}

// defaultEncoding is the tiktoken encoding used when none is specified.
// cl100k_base matches the GPT-3.5/GPT-4 family and is a reasonable proxy
// for everything else.
const defaultEncoding = "cl100k_base"

// TiktokenTokenizer counts tokens with a real BPE tokenizer
// (pkoukk/tiktoken-go). The encoding is loaded lazily on first use and
// cached for the lifetime of the tokenizer.
type TiktokenTokenizer struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewTiktokenTokenizer creates a tokenizer using the cl100k_base encoding.
func NewTiktokenTokenizer() *TiktokenTokenizer {
	return &TiktokenTokenizer{encoding: defaultEncoding}
}

// NewTiktokenTokenizerWithEncoding creates a tokenizer for a specific
// tiktoken encoding name (e.g. "o200k_base").
func NewTiktokenTokenizerWithEncoding(encoding string) *TiktokenTokenizer {
	if encoding == "" {
		encoding = defaultEncoding
	}
	return &TiktokenTokenizer{encoding: encoding}
}

// Count returns the number of tokens in text. Special tokens are treated
// as plain text, matching ordinary chat content.
func (t *TiktokenTokenizer) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	t.once.Do(func() {
		t.enc, t.err = tiktoken.GetEncoding(t.encoding)
	})
	if t.err != nil {
		return 0, fmt.Errorf("failed to load encoding %q: %w", t.encoding, t.err)
	}

	return len(t.enc.EncodeOrdinary(text)), nil
}

// HeuristicTokenizer estimates tokens with a characters-per-token ratio.
// ~4 chars per token works well for English text. It never fails, which
// makes it a good fallback when a BPE encoding cannot be loaded.
type HeuristicTokenizer struct {
	// CharsPerToken is the average characters per token. Values <= 0 mean
	// the default of 4.
	CharsPerToken int
}

// Count estimates the number of tokens in text.
func (h HeuristicTokenizer) Count(text string) (int, error) {
	ratio := h.CharsPerToken
	if ratio <= 0 {
		ratio = 4
	}
	return utf8.RuneCountInString(text) / ratio, nil
}

// Ensure interfaces are implemented
var _ Tokenizer = (*TiktokenTokenizer)(nil)
var _ Tokenizer = (HeuristicTokenizer{})
