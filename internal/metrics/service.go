package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess        = "success"
	OutcomeServiceError   = "service_error"
	OutcomeTransportError = "transport_error"
	OutcomeRejected       = "rejected_in_flight"
)

// Collector agrupa las métricas del cliente. Un *Collector nil es válido y no registra nada.
type Collector struct {
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
	viewState   *prometheus.GaugeVec
	sections    *prometheus.CounterVec
}

var viewStatuses = []string{"idle", "submitting", "success", "failure"}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "semplan_submissions_total",
			Help: "Plan submissions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "semplan_submission_duration_seconds",
			Help:    "Latency of the planning service call.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		viewState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "semplan_view_state",
			Help: "1 for the current view state, 0 otherwise.",
		}, []string{"status"}),
		sections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "semplan_rendered_sections_total",
			Help: "Plan sections rendered, by section.",
		}, []string{"section"}),
	}
	reg.MustRegister(c.submissions, c.duration, c.viewState, c.sections)
	c.SetViewState("idle")
	return c
}

func (c *Collector) ObserveSubmission(outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		c.duration.Observe(took.Seconds())
	}
}

func (c *Collector) SetViewState(status string) {
	if c == nil {
		return
	}
	for _, s := range viewStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		c.viewState.WithLabelValues(s).Set(v)
	}
}

func (c *Collector) SectionRendered(section string) {
	if c == nil {
		return
	}
	c.sections.WithLabelValues(section).Inc()
}
