package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PlansForked counts template→instance and template→template copies.
	PlansForked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coaching_plans_forked_total",
		Help: "Number of plan copies, by kind (instance or template).",
	}, []string{"kind"})

	// CheckInTransitions counts check-in lifecycle transitions.
	CheckInTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coaching_checkin_transitions_total",
		Help: "Number of check-in state transitions, by resulting state.",
	}, []string{"state"})

	// DueCheckInsGenerated counts check-ins synthesized by the schedule sweep.
	DueCheckInsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coaching_due_checkins_generated_total",
		Help: "Number of pending check-ins created by the due-schedule sweep.",
	})
)

func init() {
	prometheus.MustRegister(PlansForked, CheckInTransitions, DueCheckInsGenerated)
}
