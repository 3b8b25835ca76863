package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session's Prometheus collectors. A nil *Metrics is valid
// and records nothing, which keeps the editor usable without a registry.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	history  prometheus.Gauge
	shapes   *prometheus.GaugeVec
	saves    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboard",
			Name:      "commands_total",
			Help:      "Editor commands handled, by command.",
		}, []string{"command"}),
		history: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wboard",
			Name:      "history_depth",
			Help:      "Snapshots currently held by the undo history.",
		}),
		shapes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wboard",
			Name:      "shapes",
			Help:      "Shapes on the board, by kind.",
		}, []string{"kind"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboard",
			Name:      "persist_total",
			Help:      "Persistence writes, by target and result.",
		}, []string{"target", "result"}),
	}
	m.registry.MustRegister(m.commands, m.history, m.shapes, m.saves)
	return m
}

func (m *Metrics) command(name string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name).Inc()
}

func (m *Metrics) historyDepth(n int) {
	if m == nil {
		return
	}
	m.history.Set(float64(n))
}

// ObserveBoard records the per-kind shape counts.
func (m *Metrics) ObserveBoard(b Board) {
	if m == nil {
		return
	}
	for _, k := range paintOrder {
		m.shapes.WithLabelValues(k.String()).Set(float64(b.Count(k)))
	}
}

func (m *Metrics) persisted(target string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(target, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
