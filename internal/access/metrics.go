package access

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// decisions counts capability-matrix decisions by action and outcome.
var decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "access_decisions_total",
		Help: "Number of permission decisions, differentiated by action and outcome.",
	},
	[]string{"action", "allowed"},
)

func observeDecision(action Action, allowed bool) {
	decisions.WithLabelValues(string(action), strconv.FormatBool(allowed)).Inc()
}
