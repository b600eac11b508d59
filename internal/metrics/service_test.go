package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveSubmission(OutcomeSuccess, 2*time.Second)
	c.ObserveSubmission(OutcomeSuccess, time.Second)
	c.ObserveSubmission(OutcomeServiceError, time.Second)
	c.ObserveSubmission(OutcomeRejected, 0)

	if got := testutil.ToFloat64(c.submissions.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.submissions.WithLabelValues(OutcomeServiceError)); got != 1 {
		t.Errorf("service_error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.duration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestCollectorViewStateIsOneHot(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.SetViewState("submitting")
	for _, s := range viewStatuses {
		want := 0.0
		if s == "submitting" {
			want = 1
		}
		if got := testutil.ToFloat64(c.viewState.WithLabelValues(s)); got != want {
			t.Errorf("view_state{%s} = %v, want %v", s, got, want)
		}
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveSubmission(OutcomeSuccess, time.Second)
	c.SetViewState("idle")
	c.SectionRendered("shopping")
}
