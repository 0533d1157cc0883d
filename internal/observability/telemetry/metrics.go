package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	InboundMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hawala_inbound_messages_total",
		Help: "Inbound webhook messages by type",
	}, []string{"type"})

	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hawala_intents_total",
		Help: "Resolved intents by name and outcome",
	}, []string{"intent", "outcome"})

	TransfersRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hawala_transfers_recorded_total",
		Help: "Successfully recorded transfers",
	})

	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hawala_replies_total",
		Help: "Outbound replies by delivery status",
	}, []string{"status"})

	// Infrastructure metrics
	OracleLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hawala_oracle_latency_seconds",
		Help:    "NLU oracle call latency",
		Buckets: prometheus.DefBuckets,
	})

	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hawala_transcription_latency_seconds",
		Help:    "Speech-to-text latency",
		Buckets: prometheus.DefBuckets,
	})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hawala_database_latency_seconds",
		Help:    "Ledger query latency",
		Buckets: prometheus.DefBuckets,
	})
)
