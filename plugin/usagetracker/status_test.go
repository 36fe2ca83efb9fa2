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
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Tests: FormatStatus
// ---------------------------------------------------------------------------

func TestFormatStatus_Nominal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTurnStatus = false

	snap := Snapshot{
		TotalTokens:     4_200,
		AssistantTokens: 1_000,
		ContextLimit:    8_000,
	}

	got := FormatStatus(snap, cfg)
	want := "Context: 4.2K/8.0K (52.5%) | [⬢⬢⬢⬡⬡] | In/Out: 3.2K/1.0K"
	if got != want {
		t.Errorf("FormatStatus = %q, want %q", got, want)
	}
}

func TestFormatStatus_WarningPrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTurnStatus = false

	snap := Snapshot{TotalTokens: 6_100, ContextLimit: 8_000}

	got := FormatStatus(snap, cfg)
	if !strings.HasPrefix(got, "Warning: | ") {
		t.Errorf("76.25%% usage should carry the Warning prefix, got %q", got)
	}
}

func TestFormatStatus_CriticalPrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTurnStatus = false

	snap := Snapshot{TotalTokens: 7_600, ContextLimit: 8_000}

	got := FormatStatus(snap, cfg)
	if !strings.HasPrefix(got, "Critical: | ") {
		t.Errorf("95%% usage should carry the Critical prefix, got %q", got)
	}
	if !strings.Contains(got, "(95.0%)") {
		t.Errorf("status %q should show 95.0%%", got)
	}
}

func TestFormatStatus_DisplayPercentClampsAt100(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTurnStatus = false

	snap := Snapshot{TotalTokens: 12_000, ContextLimit: 8_000}

	got := FormatStatus(snap, cfg)
	if !strings.Contains(got, "(100.0%)") {
		t.Errorf("over-limit usage should display 100.0%%, got %q", got)
	}
	if !strings.HasPrefix(got, "Critical:") {
		t.Errorf("over-limit usage should still be Critical, got %q", got)
	}
	if !strings.Contains(got, "[⬢⬢⬢⬢⬢]") {
		t.Errorf("over-limit bar should be fully filled, got %q", got)
	}
}

func TestFormatStatus_TurnSeverityMerges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTurns = 20

	// Context usage is low, but 19/20 turns is 95%: critical wins.
	snap := Snapshot{TotalTokens: 100, ContextLimit: 8_000, TurnCount: 19}

	got := FormatStatus(snap, cfg)
	if !strings.HasPrefix(got, "Critical: | ") {
		t.Errorf("turn usage at 95%% should force Critical, got %q", got)
	}
	if !strings.Contains(got, "Turns: 19/20") {
		t.Errorf("status %q should show Turns: 19/20", got)
	}
}

func TestFormatStatus_ContextSeverityWinsOverTurnWarning(t *testing.T) {
	cfg := DefaultConfig()

	// Context at 95% (critical) vs turns at 80% (warning): critical wins.
	snap := Snapshot{TotalTokens: 7_600, ContextLimit: 8_000, TurnCount: 16}

	got := FormatStatus(snap, cfg)
	if !strings.HasPrefix(got, "Critical: | ") {
		t.Errorf("the more severe subsystem should win, got %q", got)
	}
}

func TestFormatStatus_HidesBarAndTurns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowProgressBar = false
	cfg.ShowTurnStatus = false

	snap := Snapshot{TotalTokens: 400, AssistantTokens: 100, ContextLimit: 8_000}

	got := FormatStatus(snap, cfg)
	want := "Context: 400/8.0K (5.0%) | In/Out: 300/100"
	if got != want {
		t.Errorf("FormatStatus = %q, want %q", got, want)
	}
}

func TestFormatStatus_ZeroMaxTurnsHidesTurns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTurns = 0

	snap := Snapshot{TotalTokens: 500, ContextLimit: 8_000, TurnCount: 3}

	got := FormatStatus(snap, cfg)
	if strings.Contains(got, "Turns:") {
		t.Errorf("MaxTurns=0 should hide the turn segment, got %q", got)
	}
}

func TestFormatStatus_ZeroLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTurnStatus = false

	snap := Snapshot{TotalTokens: 500, ContextLimit: 0}

	got := FormatStatus(snap, cfg)
	if !strings.Contains(got, "(0.0%)") {
		t.Errorf("zero limit should degrade to 0.0%%, got %q", got)
	}
}

func TestFormatStatus_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	snap := Snapshot{TotalTokens: 4_200, AssistantTokens: 700, ContextLimit: 8_000, TurnCount: 5}

	first := FormatStatus(snap, cfg)
	for i := 0; i < 10; i++ {
		if got := FormatStatus(snap, cfg); got != first {
			t.Fatalf("FormatStatus is not deterministic: %q vs %q", got, first)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests: severity, bar, number formatting
// ---------------------------------------------------------------------------

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Severity
	}{
		{0, SeverityNone},
		{74.9, SeverityNone},
		{75, SeverityWarning},
		{89.9, SeverityWarning},
		{90, SeverityCritical},
		{150, SeverityCritical},
	}

	for _, tc := range tests {
		if got := severityFor(tc.pct, 75, 90); got != tc.want {
			t.Errorf("severityFor(%v) = %v, want %v", tc.pct, got, tc.want)
		}
	}
}

func TestSeverityFor_DisabledTiers(t *testing.T) {
	if got := severityFor(99, 0, 0); got != SeverityNone {
		t.Errorf("zero thresholds should disable severities, got %v", got)
	}
	if got := severityFor(99, 75, 0); got != SeverityWarning {
		t.Errorf("disabled critical tier should cap at Warning, got %v", got)
	}
}

func TestBuildBar(t *testing.T) {
	tests := []struct {
		pct    float64
		length int
		want   string
	}{
		{0, 5, "[⬡⬡⬡⬡⬡]"},
		{50, 5, "[⬢⬢⬢⬡⬡]"},
		{100, 5, "[⬢⬢⬢⬢⬢]"},
		{150, 5, "[⬢⬢⬢⬢⬢]"},
		{-10, 5, "[⬡⬡⬡⬡⬡]"},
		{30, 10, "[⬢⬢⬢⬡⬡⬡⬡⬡⬡⬡]"},
		{50, 0, "[]"},
	}

	for _, tc := range tests {
		if got := buildBar(tc.pct, tc.length); got != tc.want {
			t.Errorf("buildBar(%v, %d) = %q, want %q", tc.pct, tc.length, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0K"},
		{4_096, "4.1K"},
		{65_536, "65.5K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.0M"},
		{1_250_000, "1.3M"},
	}

	for _, tc := range tests {
		if got := formatNumber(tc.n); got != tc.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
