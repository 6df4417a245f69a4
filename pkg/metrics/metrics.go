package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса
// Все методы записи безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge

	BookingsCreated     *prometheus.CounterVec
	BookingConflicts    *prometheus.CounterVec
	RescheduleDecisions *prometheus.CounterVec
	Cancellations       *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency.",
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "db_query_errors_total",
				Help:        "Failed database queries.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		DBOpenConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_open_connections",
				Help:        "Open connections in the pool.",
				ConstLabels: constLabels,
			},
		),
		DBInUse: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_in_use_connections",
				Help:        "Connections currently in use.",
				ConstLabels: constLabels,
			},
		),
		DBIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_idle_connections",
				Help:        "Idle connections in the pool.",
				ConstLabels: constLabels,
			},
		),
		DBWaitCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_wait_count",
				Help:        "Total number of connections waited for.",
				ConstLabels: constLabels,
			},
		),
		BookingsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "bookings_created_total",
				Help:        "Bookings committed, by professional scoping.",
				ConstLabels: constLabels,
			},
			[]string{"scope"},
		),
		BookingConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_conflicts_total",
				Help:        "Commits rejected because the interval overlapped an active reservation.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		RescheduleDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reschedule_decisions_total",
				Help:        "Reschedule request decisions.",
				ConstLabels: constLabels,
			},
			[]string{"decision"},
		),
		Cancellations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_cancellations_total",
				Help:        "Booking cancellations by actor.",
				ConstLabels: constLabels,
			},
			[]string{"cancelled_by"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingsCreated,
		m.BookingConflicts,
		m.RescheduleDecisions,
		m.Cancellations,
	)

	return m
}

// IncBookingCreated фиксирует созданное бронирование
func (m *Metrics) IncBookingCreated(scope string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(scope).Inc()
}

// IncBookingConflict фиксирует отказ из-за пересечения интервалов
func (m *Metrics) IncBookingConflict(operation string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(operation).Inc()
}

// IncRescheduleDecision фиксирует решение по запросу на перенос
func (m *Metrics) IncRescheduleDecision(decision string) {
	if m == nil {
		return
	}
	m.RescheduleDecisions.WithLabelValues(decision).Inc()
}

// IncCancellation фиксирует отмену бронирования
func (m *Metrics) IncCancellation(cancelledBy string) {
	if m == nil {
		return
	}
	m.Cancellations.WithLabelValues(cancelledBy).Inc()
}
