package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics глобальный контейнер метрик
type Metrics struct {
	// Метрики обработки строк OD-таблицы (component C7)
	RowsProcessedTotal  *prometheus.CounterVec
	RowDuration         *prometheus.HistogramVec
	CongruenceClassTotal *prometheus.CounterVec

	// Метрики маршрутизации (C2/C3) и кэша маршрутов
	RouteCacheHitsTotal   *prometheus.CounterVec
	RouteComputedTotal    *prometheus.CounterVec
	NoPathTotal           prometheus.Counter

	// Метрики индекса пропускной способности (C4)
	CapacityLookupsTotal *prometheus.CounterVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics инициализирует метрики
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		// Метрики обработки строк
		RowsProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rows_processed_total",
				Help:      "Total number of OD rows processed by the driver",
			},
			[]string{"checkpoint_id"},
		),

		RowDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "row_duration_seconds",
				Help:      "Duration of a single row's C2-C6 computation",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5},
			},
			[]string{"checkpoint_id"},
		),

		CongruenceClassTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "congruence_class_total",
				Help:      "Total number of rows classified into each congruence class",
			},
			[]string{"class"},
		),

		RouteCacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_cache_hits_total",
				Help:      "Total number of MC/MC2 route cache hits",
			},
			[]string{"kind"},
		),

		RouteComputedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_computed_total",
				Help:      "Total number of MC/MC2 routes computed via Dijkstra",
			},
			[]string{"kind"},
		),

		NoPathTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "no_path_total",
				Help:      "Total number of rows where no path existed between origin and destination",
			},
		),

		CapacityLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "capacity_lookups_total",
				Help:      "Total number of capacity index lookups, by hit/miss",
			},
			[]string{"result"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	prometheus.MustRegister(NewRuntimeCollector(namespace, subsystem))

	defaultMetrics = m
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("checkflow", "")
	}
	return defaultMetrics
}

// RecordRow записывает метрики обработки одной строки OD-таблицы.
func (m *Metrics) RecordRow(checkpointID string, duration time.Duration, class string) {
	m.RowsProcessedTotal.WithLabelValues(checkpointID).Inc()
	m.RowDuration.WithLabelValues(checkpointID).Observe(duration.Seconds())
	m.CongruenceClassTotal.WithLabelValues(class).Inc()
}

// RecordRouteCacheHit записывает попадание в кэш маршрутов MC/MC2.
func (m *Metrics) RecordRouteCacheHit(kind string) {
	m.RouteCacheHitsTotal.WithLabelValues(kind).Inc()
}

// RecordRouteComputed записывает вычисление маршрута через Dijkstra (кэш
// промахнулся или отключён).
func (m *Metrics) RecordRouteComputed(kind string) {
	m.RouteComputedTotal.WithLabelValues(kind).Inc()
}

// RecordNoPath записывает строку, для которой маршрут не найден.
func (m *Metrics) RecordNoPath() {
	m.NoPathTotal.Inc()
}

// RecordCapacityLookup записывает обращение к индексу пропускной
// способности; result — "hit" или "miss".
func (m *Metrics) RecordCapacityLookup(result string) {
	m.CapacityLookupsTotal.WithLabelValues(result).Inc()
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer запускает HTTP сервер для метрик
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		// Игнорируем ошибку записи - response уже отправлен
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, ошибка записи не критична
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
