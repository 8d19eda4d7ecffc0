// Package metrics defines and registers all custom Prometheus metrics for
// the marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// BookingsCreatedTotal counts bookings that were successfully created.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// BookingConflictsTotal counts booking creations rejected because the
// requested interval overlapped an existing pending or confirmed booking.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of booking creations rejected for date overlap.",
	},
)

// BookingsCancelledTotal counts cancellations, labelled by who cancelled.
// Label:
//   - by: "guest" or "host"
var BookingsCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_cancelled_total",
		Help:      "Total number of bookings cancelled, by caller role.",
	},
	[]string{"by"},
)

// ReviewsSubmittedTotal counts accepted reviews, labelled by rating.
var ReviewsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of reviews submitted, by rating.",
	},
	[]string{"rating"},
)

// ListingSearchesTotal counts public listing searches.
var ListingSearchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_searches_total",
		Help:      "Total number of public listing searches.",
	},
)
