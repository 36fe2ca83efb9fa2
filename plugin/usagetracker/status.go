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
	"math"
	"strconv"
	"strings"
)

// Severity marks how close a conversation is to a configured limit.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarning
	SeverityCritical
)

// Prefix returns the textual marker for a severity, or "" for none.
func (s Severity) Prefix() string {
	switch s {
	case SeverityCritical:
		return "Critical:"
	case SeverityWarning:
		return "Warning:"
	default:
		return ""
	}
}

// barFilled and barEmpty are the progress bar glyphs.
const (
	barFilled = "⬢"
	barEmpty  = "⬡"
)

// FormatStatus renders a Snapshot into a single status line. It is a pure
// function of the snapshot and the config: identical inputs always yield
// the identical string.
//
// The line is composed of " | "-joined parts, in this order:
//
//	[severity] | Context: <used>/<limit> (<pct>%) | [bar] | In/Out: <in>/<out> | Turns: <n>/<max>
//
// The severity prefix appears only when a threshold is crossed; the bar and
// turn parts are gated by ShowProgressBar and ShowTurnStatus. The displayed
// percentage clamps at 100, but the raw ratio still drives severity. When
// both the context and turn subsystems cross a threshold the more severe
// one wins, and ties favor Critical over Warning.
func FormatStatus(snap Snapshot, cfg Config) string {
	rawPct := 0.0
	if snap.ContextLimit > 0 {
		rawPct = 100 * float64(snap.TotalTokens) / float64(snap.ContextLimit)
	}
	displayPct := math.Min(rawPct, 100)

	severity := severityFor(rawPct, cfg.WarnAtPercentage, cfg.CriticalAtPercentage)

	showTurns := cfg.ShowTurnStatus && cfg.MaxTurns > 0
	if showTurns {
		turnPct := 100 * float64(snap.TurnCount) / float64(cfg.MaxTurns)
		if turnSeverity := severityFor(turnPct, cfg.TurnWarnAtPercentage, cfg.TurnCriticalAtPercentage); turnSeverity > severity {
			severity = turnSeverity
		}
	}

	parts := make([]string, 0, 5)
	if prefix := severity.Prefix(); prefix != "" {
		parts = append(parts, prefix)
	}

	parts = append(parts, fmt.Sprintf("Context: %s/%s (%.1f%%)",
		formatNumber(snap.TotalTokens),
		formatNumber(snap.ContextLimit),
		displayPct,
	))

	if cfg.ShowProgressBar {
		parts = append(parts, buildBar(rawPct, cfg.BarLength))
	}

	inputTokens := snap.TotalTokens - snap.AssistantTokens
	parts = append(parts, fmt.Sprintf("In/Out: %s/%s",
		formatNumber(inputTokens),
		formatNumber(snap.AssistantTokens),
	))

	if showTurns {
		parts = append(parts, fmt.Sprintf("Turns: %d/%d", snap.TurnCount, cfg.MaxTurns))
	}

	return strings.Join(parts, " | ")
}

// severityFor maps a percentage to a severity given the two thresholds.
func severityFor(pct, warnAt, criticalAt float64) Severity {
	switch {
	case criticalAt > 0 && pct >= criticalAt:
		return SeverityCritical
	case warnAt > 0 && pct >= warnAt:
		return SeverityWarning
	default:
		return SeverityNone
	}
}

// buildBar renders a fixed-width progress bar. The filled cell count is
// round(pct/100 * length), clamped to [0, length].
func buildBar(pct float64, length int) string {
	if length <= 0 {
		return "[]"
	}
	filled := int(math.Round(pct / 100 * float64(length)))
	if filled < 0 {
		filled = 0
	}
	if filled > length {
		filled = length
	}
	return "[" + strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, length-filled) + "]"
}

// formatNumber abbreviates large numbers for display: 1.2K, 3.4M.
func formatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}
