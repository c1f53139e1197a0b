package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus contadores de negocio y latencia HTTP sobre un registry propio.
type Prometheus struct {
	registry         *prometheus.Registry
	movements        *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	alerts           *prometheus.CounterVec
	suggestions      prometheus.Histogram
	purchaseLists    *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec
}

// New crea el registry con los colectores del proceso y de Go más los del ledger.
func New(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_recorded_total",
			Help:      "Movimientos registrados en el ledger",
		}, []string{"type", "direction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por motivo",
		}, []string{"reason"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Alertas publicadas",
		}, []string{"type", "severity"}),
		suggestions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestions_generated",
			Help:      "Sugerencias producidas por corrida",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		purchaseLists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_lists_generated_total",
			Help:      "Listas de compras generadas por disparador",
		}, []string{"trigger"}),
		requestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.movements, p.rejections, p.alerts, p.suggestions, p.purchaseLists, p.requestDurations,
	)
	return p
}

func (p *Prometheus) MovementRecorded(movementType, direction string) {
	p.movements.WithLabelValues(movementType, direction).Inc()
}

func (p *Prometheus) MovementRejected(reason string) {
	p.rejections.WithLabelValues(reason).Inc()
}

func (p *Prometheus) AlertPublished(alertType, severity string) {
	p.alerts.WithLabelValues(alertType, severity).Inc()
}

func (p *Prometheus) SuggestionsGenerated(count int) {
	p.suggestions.Observe(float64(count))
}

func (p *Prometheus) PurchaseListGenerated(triggerType string) {
	p.purchaseLists.WithLabelValues(triggerType).Inc()
}

// ObserveRequest registra la latencia de una petición; route es el patrón, no la URL.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.requestDurations.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler expone el registry en formato Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry para registrar colectores adicionales.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
