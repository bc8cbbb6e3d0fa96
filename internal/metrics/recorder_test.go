package metrics

import (
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObservePassDuration(120 * time.Millisecond)
	rec.ObserveStageDuration("assemble", 10*time.Millisecond)
	rec.IncPassOutcome("written")
	rec.IncPassOutcome("written")
	rec.IncSections("matched", 3)
	rec.IncSections("synthesized", 0) // no-op

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, f := range families {
		byName[f.GetName()] = true
	}
	require.True(t, byName["podreadme_pass_duration_seconds"])
	require.True(t, byName["podreadme_stage_duration_seconds"])
	require.True(t, byName["podreadme_pass_outcomes_total"])
	require.True(t, byName["podreadme_sections_emitted_total"])
}

func TestPrometheusRecorder_SummaryExposesSamples(t *testing.T) {
	rec := NewPrometheusRecorder(prom.NewRegistry())

	rec.IncPassOutcome("written")
	rec.IncPassOutcome("written")
	rec.IncSections("matched", 3)
	rec.ObserveStageDuration("render", 5*time.Millisecond)

	lines := rec.Summary()
	require.Contains(t, lines, "podreadme_pass_outcomes_total{outcome=written} 2")
	require.Contains(t, lines, "podreadme_sections_emitted_total{origin=matched} 3")

	var sawStage bool
	for _, l := range lines {
		if strings.HasPrefix(l, "podreadme_stage_duration_seconds{stage=render} count=1") {
			sawStage = true
		}
	}
	require.True(t, sawStage)

	var nilRec *PrometheusRecorder
	require.Nil(t, nilRec.Summary())
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var rec *PrometheusRecorder
	rec.ObservePassDuration(time.Second)
	rec.IncPassOutcome("failed")
	rec.IncSections("matched", 1)
}

func TestNop_ImplementsRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.ObservePassDuration(time.Second)
	r.IncPassOutcome("unchanged")
}
