package sysmon

import (
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shirou/gopsutil/v4/mem"
)

// SafetyFactor pads a model's declared footprint so transient spikes during
// model load do not exhaust the host.
const SafetyFactor = 1.2

// DefaultRequiredGB is assumed for models missing from the profile table.
const DefaultRequiredGB = 4.0

const probeCacheKey = "available_gb"

// ModelProfile declares a model's approximate resident memory need.
// The table is read-only after startup.
type ModelProfile struct {
	ModelId          string
	MemoryRequiredGB float64
}

// DefaultProfiles mirrors the supported local model lineup.
func DefaultProfiles() []ModelProfile {
	return []ModelProfile{
		{ModelId: "phi", MemoryRequiredGB: 2},
		{ModelId: "tinyllama", MemoryRequiredGB: 2},
		{ModelId: "mistral", MemoryRequiredGB: 7},
		{ModelId: "llama3.2", MemoryRequiredGB: 8},
	}
}

// Prober reports currently available host memory in GB.
type Prober func() (float64, error)

func gopsutilProber() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Available) / (1024 * 1024 * 1024), nil
}

// Report is one admission check outcome. Warning is empty when memory
// suffices or the probe was unavailable (advisory check fails open).
type Report struct {
	Fits        bool    `json:"fits"`
	RequiredGB  float64 `json:"required_gb"`
	AvailableGB float64 `json:"available_gb"`
	Warning     string  `json:"warning,omitempty"`
}

// Monitor is a read-only probe of the host used for admission decisions.
// Probe results are memoized briefly so the status endpoint and per-request
// admission checks do not hammer the platform API.
type Monitor struct {
	profiles map[string]float64
	probe    Prober
	memo     *gocache.Cache
}

func NewMonitor(profiles []ModelProfile) *Monitor {
	return NewMonitorWithProber(profiles, gopsutilProber)
}

// NewMonitorWithProber injects the probe, for tests.
func NewMonitorWithProber(profiles []ModelProfile, probe Prober) *Monitor {
	table := make(map[string]float64, len(profiles))
	for _, p := range profiles {
		table[p.ModelId] = p.MemoryRequiredGB
	}
	return &Monitor{
		profiles: table,
		probe:    probe,
		memo:     gocache.New(2*time.Second, 30*time.Second),
	}
}

// Models lists the profiled model ids in stable order.
func (m *Monitor) Models() []string {
	out := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Monitor) RequiredGB(modelId string) float64 {
	if gb, ok := m.profiles[modelId]; ok {
		return gb
	}
	return DefaultRequiredGB
}

// AvailableMemoryGB returns the memoized probe result.
func (m *Monitor) AvailableMemoryGB() (float64, error) {
	if v, found := m.memo.Get(probeCacheKey); found {
		return v.(float64), nil
	}
	gb, err := m.probe()
	if err != nil {
		return 0, err
	}
	m.memo.Set(probeCacheKey, gb, gocache.DefaultExpiration)
	return gb, nil
}

// Fits reports whether the model's padded footprint fits in available memory.
// A failed probe fails open: admission is an advisory safeguard, not a hard
// boundary, and its absence must not block all generation.
func (m *Monitor) Fits(modelId string) bool {
	return m.Check(modelId).Fits
}

// Check performs one admission probe and returns the full report.
func (m *Monitor) Check(modelId string) Report {
	required := m.RequiredGB(modelId)
	available, err := m.AvailableMemoryGB()
	if err != nil {
		return Report{Fits: true, RequiredGB: required}
	}

	report := Report{
		Fits:        available >= required*SafetyFactor,
		RequiredGB:  required,
		AvailableGB: available,
	}
	if !report.Fits {
		report.Warning = fmt.Sprintf(
			"low memory: %s requires ~%.0fGB but only %.1fGB available",
			modelId, required, available,
		)
	}
	return report
}
