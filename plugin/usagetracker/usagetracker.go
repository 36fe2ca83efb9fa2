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

// Package usagetracker implements an ADK plugin that reports context-window
// consumption and turn usage for every model call. Before each call it
// tokenizes the outgoing transcript, resolves the model's context window
// (user overrides first, then a model registry, then a conservative
// fallback), and emits a one-line status through a configurable sink:
//
//	Warning: | Context: 6.1K/8.0K (76.3%) | [⬢⬢⬢⬢⬡] | In/Out: 4.9K/1.2K | Turns: 9/20
//
// After each call it re-emits the line using the provider's reported token
// counts, which are exact where the pre-call tokenization is an estimate.
//
// The tracker is purely advisory: it never mutates the request, never
// blocks a call, and degrades every internal failure (tokenizer errors,
// sink errors, unknown models) to a best-effort line or silence.
//
// Usage:
//
//	tracker := usagetracker.New(usagetracker.DefaultRegistry())
//	tracker.Add("assistant")
//	tracker.Add("researcher", usagetracker.WithMaxTurns(40))
//
//	runnr, _ := runner.New(runner.Config{
//	    Agent:        myAgent,
//	    PluginConfig: tracker.PluginConfig(),
//	})
package usagetracker

import (
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/plugin"
	"google.golang.org/adk/runner"
)

const (
	stateKeyPrefixModelID   = "__usage_tracker_model_"
	stateKeyPrefixTurnCount = "__usage_tracker_turns_"
	stateKeyPrefixLimit     = "__usage_tracker_limit_"
)

const (
	defaultBarLength = 5
	defaultMaxTurns  = 20

	defaultWarnAtPercentage     = 75.0
	defaultCriticalAtPercentage = 90.0
)

// Config holds the tracker's display knobs. All agents registered with Add
// start from the tracker-wide Config; per-agent options adjust a copy.
type Config struct {
	// ShowStatus enables status emission entirely. When false the tracker
	// is inert for the agent.
	ShowStatus bool

	// ShowProgressBar includes the [⬢⬢⬡⬡⬡] bar segment in the line.
	ShowProgressBar bool

	// BarLength is the number of cells in the progress bar.
	BarLength int

	// WarnAtPercentage and CriticalAtPercentage are context-usage
	// thresholds (0-100) for the severity prefix. Zero disables a tier.
	WarnAtPercentage     float64
	CriticalAtPercentage float64

	// ShowTurnStatus includes the Turns: n/max segment and lets turn usage
	// contribute to the severity prefix.
	ShowTurnStatus bool

	// MaxTurns is the advisory turn ceiling. Zero hides turn tracking even
	// when ShowTurnStatus is set.
	MaxTurns int

	// TurnWarnAtPercentage and TurnCriticalAtPercentage are turn-usage
	// thresholds (0-100). Zero disables a tier.
	TurnWarnAtPercentage     float64
	TurnCriticalAtPercentage float64

	// ModelOverrides is a plaintext table of "model-id context-size" lines
	// that wins over the registry. It is re-parsed only when its content
	// changes, so it can be fed from a live settings field.
	ModelOverrides string

	// LogLevel is the slog level for the tracker's own diagnostics:
	// "DEBUG", "INFO", "WARN" or "ERROR". Unrecognized values mean INFO.
	LogLevel string
}

// DefaultConfig returns the configuration used when none is supplied:
// everything visible, 5-cell bar, warn at 75%, critical at 90%, 20 turns.
func DefaultConfig() Config {
	return Config{
		ShowStatus:               true,
		ShowProgressBar:          true,
		BarLength:                defaultBarLength,
		WarnAtPercentage:         defaultWarnAtPercentage,
		CriticalAtPercentage:     defaultCriticalAtPercentage,
		ShowTurnStatus:           true,
		MaxTurns:                 defaultMaxTurns,
		TurnWarnAtPercentage:     defaultWarnAtPercentage,
		TurnCriticalAtPercentage: defaultCriticalAtPercentage,
		LogLevel:                 "INFO",
	}
}

// slogLevel maps the textual LogLevel to a slog.Level.
func (c Config) slogLevel() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Option configures the tracker when calling New.
type Option func(*UsageTracker)

// WithConfig replaces the tracker-wide Config.
func WithConfig(cfg Config) Option {
	return func(t *UsageTracker) {
		t.config = cfg
	}
}

// WithSink replaces the default slog sink with a custom destination for
// status lines.
func WithSink(sink StatusSink) Option {
	return func(t *UsageTracker) {
		t.sink = sink
	}
}

// WithTokenizer replaces the default tiktoken tokenizer. Useful for hosts
// that already carry a tokenizer, and for tests.
func WithTokenizer(tok Tokenizer) Option {
	return func(t *UsageTracker) {
		t.tokenizer = tok
	}
}

// AgentOption configures per-agent behavior when calling Add.
type AgentOption func(*agentSettings)

type agentSettings struct {
	config Config

	// contextWindow, when positive, is a manual context window size for
	// this agent's model. It bypasses both overrides and the registry.
	contextWindow int
}

// WithMaxTurns sets the advisory turn ceiling for one agent.
func WithMaxTurns(maxTurns int) AgentOption {
	return func(s *agentSettings) {
		s.config.MaxTurns = maxTurns
	}
}

// WithContextWindow sets a manual context window size (in tokens) for one
// agent, bypassing the override table and the ModelRegistry.
func WithContextWindow(tokens int) AgentOption {
	return func(s *agentSettings) {
		s.contextWindow = tokens
	}
}

// UsageTracker accumulates per-agent settings and produces a single
// runner.PluginConfig. Use New to create one, Add to register agents,
// and PluginConfig to get the final configuration.
type UsageTracker struct {
	registry  ModelRegistry
	config    Config
	sink      StatusSink
	tokenizer Tokenizer
	agents    map[string]agentSettings
}

// New creates a UsageTracker backed by the given ModelRegistry. Without
// options it uses DefaultConfig, a tiktoken cl100k_base tokenizer, and a
// slog sink at the configured log level.
func New(registry ModelRegistry, opts ...Option) *UsageTracker {
	t := &UsageTracker{
		registry: registry,
		config:   DefaultConfig(),
		agents:   make(map[string]agentSettings),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sink == nil {
		t.sink = NewSlogSink(slog.Default(), t.config.slogLevel())
	}
	if t.tokenizer == nil {
		t.tokenizer = NewTiktokenTokenizer()
	}
	return t
}

// Add registers an agent for tracking. Without options the agent inherits
// the tracker-wide Config.
func (t *UsageTracker) Add(agentID string, opts ...AgentOption) {
	settings := agentSettings{config: t.config}
	for _, opt := range opts {
		opt(&settings)
	}
	t.agents[agentID] = settings

	slog.Info("UsageTracker: agent registered",
		"agent", agentID,
		"maxTurns", settings.config.MaxTurns,
	)
}

// PluginConfig returns a runner.PluginConfig ready to pass to the ADK
// launcher or runner.
func (t *UsageTracker) PluginConfig() runner.PluginConfig {
	tracker := &usageTracker{
		registry:  t.registry,
		sink:      t.sink,
		tokenizer: t.tokenizer,
		agents:    t.agents,
	}

	p, _ := plugin.New(plugin.Config{
		Name:                "usage_tracker",
		BeforeModelCallback: llmagent.BeforeModelCallback(tracker.beforeModel),
		AfterModelCallback:  llmagent.AfterModelCallback(tracker.afterModel),
	})

	return runner.PluginConfig{
		Plugins: []*plugin.Plugin{p},
	}
}

// usageTracker is the internal state of the plugin, holding per-agent
// settings keyed by agent ID plus the shared override cache.
type usageTracker struct {
	registry  ModelRegistry
	sink      StatusSink
	tokenizer Tokenizer
	agents    map[string]agentSettings

	mu        sync.Mutex
	overrides OverrideCache
}

// beforeModel is the BeforeModelCallback invoked by ADK before every LLM
// call. It tokenizes the outgoing transcript, resolves the context window,
// emits a status line, and records what afterModel needs to re-emit with
// real counts. It never alters the request and never returns an error.
func (t *usageTracker) beforeModel(ctx agent.CallbackContext, req *model.LLMRequest) (*model.LLMResponse, error) {
	if req == nil {
		return nil, nil
	}

	settings, ok := t.agents[ctx.AgentName()]
	if !ok || !settings.config.ShowStatus {
		return nil, nil
	}

	limit := settings.contextWindow
	if limit <= 0 {
		limit = t.resolveContextWindow(req.Model, settings.config.ModelOverrides)
	}

	snap := ComputeUsage(req.Contents, req.Model, limit, t.tokenizer)

	persistCallInfo(ctx, snap)
	t.emit(ctx, FormatStatus(snap, settings.config))

	return nil, nil
}

// afterModel is the AfterModelCallback invoked by ADK after every LLM call.
// When the provider reported usage metadata, it re-emits the status line
// with exact counts: total = prompt + candidates, output = candidates.
// Partial (streaming) chunks are skipped.
func (t *usageTracker) afterModel(ctx agent.CallbackContext, resp *model.LLMResponse, _ error) (*model.LLMResponse, error) {
	if resp == nil || resp.Partial || resp.UsageMetadata == nil {
		return nil, nil
	}

	settings, ok := t.agents[ctx.AgentName()]
	if !ok || !settings.config.ShowStatus {
		return nil, nil
	}

	prompt := int(resp.UsageMetadata.PromptTokenCount)
	candidates := int(resp.UsageMetadata.CandidatesTokenCount)
	if prompt <= 0 && candidates <= 0 {
		return nil, nil
	}

	snap := loadCallInfo(ctx)
	snap.TotalTokens = prompt + candidates
	snap.AssistantTokens = candidates
	if snap.ContextLimit <= 0 {
		limit := settings.contextWindow
		if limit <= 0 {
			limit = t.resolveContextWindow(snap.ModelID, settings.config.ModelOverrides)
		}
		snap.ContextLimit = limit
	}

	t.emit(ctx, FormatStatus(snap, settings.config))

	return nil, nil
}

// resolveContextWindow wraps ResolveContextWindow with the shared override
// cache. Callbacks for different sessions can run concurrently, so access
// to the cache is serialized.
func (t *usageTracker) resolveContextWindow(modelID, overrideText string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.overrides.Refresh(overrideText)
	return ResolveContextWindow(modelID, &t.overrides, t.registry)
}

// emit pushes a status line to the sink. Sink failures are logged and
// swallowed: a broken display must not break the model call.
func (t *usageTracker) emit(ctx agent.CallbackContext, status string) {
	if err := t.sink.Emit(ctx, EventKindStatus, status); err != nil {
		slog.Warn("UsageTracker: status emission failed",
			"agent", ctx.AgentName(),
			"error", err,
		)
	}
}

// --- Session state helpers ---

// persistCallInfo records the pre-call snapshot fields that afterModel
// needs to rebuild the status line: model ID, turn count, and the resolved
// context limit. Errors are logged but not propagated.
func persistCallInfo(ctx agent.CallbackContext, snap Snapshot) {
	agentID := ctx.AgentName()
	if err := ctx.State().Set(stateKeyPrefixModelID+agentID, snap.ModelID); err != nil {
		slog.Warn("UsageTracker: failed to persist model ID", "error", err)
	}
	if err := ctx.State().Set(stateKeyPrefixTurnCount+agentID, snap.TurnCount); err != nil {
		slog.Warn("UsageTracker: failed to persist turn count", "error", err)
	}
	if err := ctx.State().Set(stateKeyPrefixLimit+agentID, snap.ContextLimit); err != nil {
		slog.Warn("UsageTracker: failed to persist context limit", "error", err)
	}
}

// loadCallInfo reads back what persistCallInfo stored. Missing keys leave
// zero values; afterModel re-resolves the limit in that case.
func loadCallInfo(ctx agent.CallbackContext) Snapshot {
	agentID := ctx.AgentName()
	snap := Snapshot{}

	if val, err := ctx.State().Get(stateKeyPrefixModelID + agentID); err == nil {
		if s, ok := val.(string); ok {
			snap.ModelID = s
		}
	}
	if val, err := ctx.State().Get(stateKeyPrefixTurnCount + agentID); err == nil {
		snap.TurnCount = stateInt(val)
	}
	if val, err := ctx.State().Get(stateKeyPrefixLimit + agentID); err == nil {
		snap.ContextLimit = stateInt(val)
	}

	return snap
}

// stateInt converts a state value to int. Session backends that round-trip
// through JSON hand numbers back as float64.
func stateInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
