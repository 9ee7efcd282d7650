package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vault"

var (
	instructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instructions_total",
			Help:      "Number of executed instructions by outcome.",
		},
		[]string{"instruction", "result"},
	)
	lamportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lamports_moved_total",
			Help:      "Lamports moved by successful instructions.",
		},
		[]string{"instruction"},
	)
	instructionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "instruction_duration_seconds",
			Help:      "Time spent executing instructions.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"instruction"},
	)
	webhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Number of webhook notifications by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		instructionsTotal, lamportsTotal, instructionDuration, webhookDeliveries,
	)
}

// RecordInstruction tracks the outcome of an instruction started at the
// given time.
func RecordInstruction(
	instruction string, lamports uint64, start time.Time, err error,
) {
	instructionDuration.WithLabelValues(instruction).Observe(
		time.Since(start).Seconds(),
	)
	if err != nil {
		instructionsTotal.WithLabelValues(instruction, "failure").Inc()
		return
	}
	instructionsTotal.WithLabelValues(instruction, "success").Inc()
	if lamports > 0 {
		lamportsTotal.WithLabelValues(instruction).Add(float64(lamports))
	}
}

// RecordWebhookDelivery tracks the outcome of a webhook notification.
func RecordWebhookDelivery(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	webhookDeliveries.WithLabelValues(result).Inc()
}
