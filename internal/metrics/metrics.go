package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - все prometheus-метрики приложения
type Metrics struct {
	RequestCount     *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
	IncidentsCreated prometheus.Counter
}

// New создает и регистрирует метрики в переданном Registerer
// (в тестах используется отдельный prometheus.NewRegistry)
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "http_status"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_request_latency_seconds",
			Help: "Latency of HTTP requests",
		}, []string{"method", "endpoint"}),
		IncidentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "incidents_created_total",
			Help: "Total number of incidents created",
		}),
	}
}

// IncrementIncidentsCreated увеличивает счетчик созданных инцидентов на 1
func (m *Metrics) IncrementIncidentsCreated() {
	m.IncidentsCreated.Inc()
}
