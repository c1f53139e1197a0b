package inventory

import "github.com/jhoicas/inventario-ledger/internal/application/ports"

// Option configura dependencias opcionales de los casos de uso de inventario.
type Option func(*options)

type options struct {
	now     ports.Clock
	metrics ports.Metrics
}

// WithClock fija la fuente de tiempo (tests).
func WithClock(c ports.Clock) Option {
	return func(o *options) { o.now = c }
}

// WithMetrics registra contadores de negocio.
func WithMetrics(m ports.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{now: ports.SystemClock, metrics: ports.NopMetrics{}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
