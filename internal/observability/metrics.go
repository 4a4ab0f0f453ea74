package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	estimationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "emissions",
		Name:      "estimations_total",
		Help:      "Number of emission estimates calculated, by category.",
	}, []string{"category"})
	goalsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "goals",
		Name:      "created_total",
		Help:      "Number of goals created.",
	})
	activitiesLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "goals",
		Name:      "activities_logged_total",
		Help:      "Number of activities logged against goals.",
	})
	goalsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "goals",
		Name:      "completed_total",
		Help:      "Number of goals that reached their target.",
	})
	eventsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecosangam",
		Subsystem: "persistence",
		Name:      "outbox_events_recorded_total",
		Help:      "Number of events committed to the outbox, by event type.",
	}, []string{"event_type"})
	lastGoalWrite = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecosangam",
		Subsystem: "persistence",
		Name:      "last_goal_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent goal change committed.",
	})
	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ecosangam",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

func init() {
	prometheus.MustRegister(estimationsTotal, goalsCreated, activitiesLogged, goalsCompleted, eventsRecorded, lastGoalWrite, httpRequests)
}

// RecordEstimation counts an emission estimate.
func RecordEstimation(category string) {
	estimationsTotal.WithLabelValues(category).Inc()
}

// RecordGoalCreated counts a goal creation.
func RecordGoalCreated() {
	goalsCreated.Inc()
}

// RecordActivityLogged counts an activity, and a completion when it finished the goal.
func RecordActivityLogged(completed bool) {
	activitiesLogged.Inc()
	if completed {
		goalsCompleted.Inc()
	}
}

// RecordEventRecorded counts an event committed to the outbox and moves the write
// watermark.
func RecordEventRecorded(eventType string) {
	eventsRecorded.WithLabelValues(eventType).Inc()
	lastGoalWrite.Set(float64(time.Now().Unix()))
}

// ObserveHTTPRequest records the latency of a served request.
func ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
