// Package metrics exposes the machine state as prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "espresso"

// Machine holds the collectors for one espresso machine.
type Machine struct {
	Brewed       prometheus.Counter
	LitresBrewed prometheus.Counter
	Descales     prometheus.Counter
	Failures     *prometheus.CounterVec
	Beans        prometheus.Gauge
	Water        prometheus.Gauge
	SinceDescale prometheus.Gauge
}

// New creates the machine collectors and registers them with reg.
func New(reg prometheus.Registerer) *Machine {
	m := &Machine{
		Brewed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "espressos_brewed_total",
			Help:      "Espressos brewed.",
		}),
		LitresBrewed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "litres_brewed_total",
			Help:      "Litres of coffee brewed.",
		}),
		Descales: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descales_total",
			Help:      "Completed descale cycles.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Failed machine operations by operation and error kind.",
		}, []string{"operation", "kind"}),
		Beans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "beans_spoons",
			Help:      "Spoons of beans in the beans container.",
		}),
		Water: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "water_litres",
			Help:      "Litres of water in the water container.",
		}),
		SinceDescale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "litres_since_last_descale",
			Help:      "Descale counter of the machine.",
		}),
	}
	reg.MustRegister(m.Brewed, m.LitresBrewed, m.Descales, m.Failures, m.Beans, m.Water, m.SinceDescale)
	return m
}

// Observe sets the level gauges.
func (m *Machine) Observe(beans int, water, sinceDescale float64) {
	m.Beans.Set(float64(beans))
	m.Water.Set(water)
	m.SinceDescale.Set(sinceDescale)
}
