package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	registry      *prom.Registry
	passDuration  prom.Histogram
	stageDuration *prom.HistogramVec
	passOutcomes  *prom.CounterVec
	sections      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.passDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "podreadme",
			Name:      "pass_duration_seconds",
			Help:      "Total render pass duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "podreadme",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.passOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "podreadme",
			Name:      "pass_outcomes_total",
			Help:      "Render pass outcomes by final status",
		}, []string{"outcome"})
		pr.sections = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "podreadme",
			Name:      "sections_emitted_total",
			Help:      "Sections emitted by origin",
		}, []string{"origin"})
		reg.MustRegister(pr.passDuration, pr.stageDuration, pr.passOutcomes, pr.sections)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil || p.passDuration == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPassOutcome(outcome string) {
	if p == nil || p.passOutcomes == nil {
		return
	}
	p.passOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncSections(origin string, n int) {
	if p == nil || p.sections == nil || n <= 0 {
		return
	}
	p.sections.WithLabelValues(origin).Add(float64(n))
}

// Summary renders the collected samples as sorted "name{labels} value"
// lines. The CLI has no scrape endpoint, so this is how the recorded data
// reaches the operator (logged when a command finishes).
func (p *PrometheusRecorder) Summary() []string {
	if p == nil || p.registry == nil {
		return nil
	}
	families, err := p.registry.Gather()
	if err != nil {
		return nil
	}
	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			name := f.GetName()
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", l.GetName(), l.GetValue()))
			}
			if len(labels) > 0 {
				name = fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	return lines
}
