package voice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moneytalk_voice_tool_calls_total",
	Help: "Live-session tool calls by tool name and result.",
}, []string{"tool", "result"})
