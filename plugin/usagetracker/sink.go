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
	"context"
	"log/slog"
)

// EventKindStatus is the kind attached to status-line events. Sinks that
// forward events to a UI can use it to pick a rendering style.
const EventKindStatus = "status"

// StatusSink receives rendered status lines. Implementations deliver them
// wherever the host surfaces progress (a chat UI, a log stream, a metrics
// pipeline). Emit errors are logged by the tracker and never propagate to
// the model call.
type StatusSink interface {
	Emit(ctx context.Context, kind string, description string) error
}

// SinkFunc adapts a plain function to the StatusSink interface.
type SinkFunc func(ctx context.Context, kind string, description string) error

func (f SinkFunc) Emit(ctx context.Context, kind string, description string) error {
	return f(ctx, kind, description)
}

// SlogSink writes status lines to a slog.Logger. It is the default sink:
// useful on its own for server logs and as a template for custom sinks.
type SlogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogSink creates a sink writing to the given logger at the given
// level. A nil logger means slog.Default().
func NewSlogSink(logger *slog.Logger, level slog.Level) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, level: level}
}

func (s *SlogSink) Emit(ctx context.Context, kind string, description string) error {
	s.logger.Log(ctx, s.level, description, "kind", kind)
	return nil
}

// Ensure interfaces are implemented
var _ StatusSink = (SinkFunc)(nil)
var _ StatusSink = (*SlogSink)(nil)
