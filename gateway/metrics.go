package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	depositsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_deposits_total",
			Help: "Total number of deposit instructions by route and status",
		},
		[]string{"route", "status"},
	)

	withdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_withdrawals_total",
			Help: "Total number of withdrawal instructions by kind and status",
		},
		[]string{"kind", "status"},
	)

	verificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_tss_verification_failures_total",
			Help: "Total number of TSS message verification failures by reason",
		},
		[]string{"reason"},
	)

	pausedGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_paused",
			Help: "Whether the gateway is paused (1=paused, 0=active)",
		},
	)

	eventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_events_emitted_total",
			Help: "Total number of bridge events emitted by type",
		},
		[]string{"type"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
