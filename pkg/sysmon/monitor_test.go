package sysmon

import (
	"errors"
	"strings"
	"testing"
)

func fixedProber(gb float64) Prober {
	return func() (float64, error) { return gb, nil }
}

func TestFitsAppliesSafetyFactor(t *testing.T) {
	tests := []struct {
		name        string
		modelId     string
		availableGB float64
		wantFits    bool
	}{
		// mistral needs 7GB, padded to 8.4GB
		{"well above padded requirement", "mistral", 16, true},
		{"exactly at padded requirement", "mistral", 8.4, true},
		{"above raw but below padded", "mistral", 8, false},
		{"below raw requirement", "mistral", 4, false},
		{"small model on small host", "phi", 2.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitorWithProber(DefaultProfiles(), fixedProber(tt.availableGB))
			if got := m.Fits(tt.modelId); got != tt.wantFits {
				t.Errorf("Fits(%s) with %.1fGB = %v, want %v", tt.modelId, tt.availableGB, got, tt.wantFits)
			}
		})
	}
}

func TestUnknownModelUsesDefaultRequirement(t *testing.T) {
	m := NewMonitorWithProber(DefaultProfiles(), fixedProber(100))
	if got := m.RequiredGB("does-not-exist"); got != DefaultRequiredGB {
		t.Errorf("RequiredGB = %.1f, want %.1f", got, DefaultRequiredGB)
	}
}

func TestCheckFailsOpenOnProbeError(t *testing.T) {
	m := NewMonitorWithProber(DefaultProfiles(), func() (float64, error) {
		return 0, errors.New("platform API unavailable")
	})

	report := m.Check("llama3.2")
	if !report.Fits {
		t.Error("expected advisory check to fail open when the probe fails")
	}
	if report.Warning != "" {
		t.Errorf("expected no warning on probe failure, got %q", report.Warning)
	}
}

func TestCheckWarningNamesModel(t *testing.T) {
	m := NewMonitorWithProber(DefaultProfiles(), fixedProber(3))

	report := m.Check("llama3.2")
	if report.Fits {
		t.Fatal("expected llama3.2 not to fit in 3GB")
	}
	if !strings.Contains(report.Warning, "llama3.2") {
		t.Errorf("warning should name the model, got %q", report.Warning)
	}
}

func TestProbeResultIsMemoized(t *testing.T) {
	calls := 0
	m := NewMonitorWithProber(DefaultProfiles(), func() (float64, error) {
		calls++
		return 32, nil
	})

	m.Check("phi")
	m.Check("mistral")
	if calls != 1 {
		t.Errorf("probe called %d times within memo window, want 1", calls)
	}
}
