package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Observe(49, 1.95, -0.05)

	if got := testutil.ToFloat64(m.Beans); got != 49 {
		t.Errorf("beans = %v; want 49", got)
	}
	if got := testutil.ToFloat64(m.Water); got != 1.95 {
		t.Errorf("water = %v; want 1.95", got)
	}
	if got := testutil.ToFloat64(m.SinceDescale); got != -0.05 {
		t.Errorf("since descale = %v; want -0.05", got)
	}
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Failures.WithLabelValues("brew", "no_water").Inc()

	n, err := testutil.GatherAndCount(reg, "espresso_operation_failures_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 series, got %d", n)
	}
}
