package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var verdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moneytalk_classifier_verdicts_total",
	Help: "Classifier outcomes by action, plus errors.",
}, []string{"action"})
