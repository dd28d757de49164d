// Package metrics holds the prometheus instruments for the API process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckIns counts check-in calls by outcome (success, skipped, error).
var CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "facetrack_checkins_total",
	Help: "Check-in requests by outcome.",
}, []string{"status"})

// Registrations counts person registrations by outcome.
var Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "facetrack_registrations_total",
	Help: "Person registrations by outcome.",
}, []string{"status"})
