package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_published_total",
			Help: "Total number of events published to Kafka, by topic and outcome",
		},
		[]string{"topic", "outcome"},
	)

	eventsConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_consumed_total",
			Help: "Total number of events consumed from Kafka, by topic and outcome",
		},
		[]string{"topic", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(eventsPublishedTotal)
	prometheus.MustRegister(eventsConsumedTotal)
}
