package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы резервирования слота
const (
	ReservationOK       = "ok"
	ReservationConflict = "conflict"
	ReservationTooLate  = "too_late"
	ReservationNotFound = "not_found"
	ReservationError    = "error"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// БД
	dbQueryDuration   *prometheus.HistogramVec
	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge

	// Генерация расписания
	slotsGenerated *prometheus.CounterVec

	// Резервирование
	reservationsTotal *prometheus.CounterVec

	// Монитор бронирований
	monitorTransitions  *prometheus.CounterVec
	monitorErrors       prometheus.Counter
	monitorTickDuration prometheus.Histogram
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики в указанном реестре (для тестов)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		dbInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		dbIdle: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		dbWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		slotsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "schedule_slots_total",
			Help:        "Slots touched by schedule generation",
			ConstLabels: labels,
		}, []string{"action"}),

		reservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Slot reservation attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		monitorTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_monitor_transitions_total",
			Help:        "Booking status transitions applied by the monitor",
			ConstLabels: labels,
		}, []string{"to"}),
		monitorErrors: factory.NewCounter(prometheus.CounterOpts{
			Name:        "booking_monitor_errors_total",
			Help:        "Errors while processing bookings in the monitor",
			ConstLabels: labels,
		}),
		monitorTickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "booking_monitor_tick_duration_seconds",
			Help:        "Duration of a booking monitor tick",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	m.dbOpenConnections.Set(float64(open))
	m.dbInUse.Set(float64(inUse))
	m.dbIdle.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// AddGeneratedSlots учитывает результат генерации (action: created, updated, removed, skipped_booked)
func (m *Metrics) AddGeneratedSlots(action string, count int) {
	if count <= 0 {
		return
	}
	m.slotsGenerated.WithLabelValues(action).Add(float64(count))
}

// IncReservation учитывает попытку резервирования слота
func (m *Metrics) IncReservation(outcome string) {
	m.reservationsTotal.WithLabelValues(outcome).Inc()
}

// IncMonitorTransition учитывает переход статуса бронирования, выполненный монитором
func (m *Metrics) IncMonitorTransition(to string) {
	m.monitorTransitions.WithLabelValues(to).Inc()
}

// IncMonitorError учитывает ошибку обработки бронирования
func (m *Metrics) IncMonitorError() {
	m.monitorErrors.Inc()
}

// ObserveMonitorTick записывает длительность тика монитора
func (m *Metrics) ObserveMonitorTick(duration time.Duration) {
	m.monitorTickDuration.Observe(duration.Seconds())
}
