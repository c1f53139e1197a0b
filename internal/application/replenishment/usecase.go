package replenishment

import (
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Option configura dependencias opcionales del motor de reposición.
type Option func(*UseCase)

// WithClock fija la fuente de tiempo.
func WithClock(c ports.Clock) Option { return func(uc *UseCase) { uc.now = c } }

// WithMetrics registra contadores de negocio.
func WithMetrics(m ports.Metrics) Option { return func(uc *UseCase) { uc.metrics = m } }

// WithDefaults reemplaza los parámetros por defecto (leídos de la configuración de la app).
func WithDefaults(d domaininventory.SuggestionParams) Option { return func(uc *UseCase) { uc.defaults = d } }

// WithRenderer registra un formato de exportación (ej. "pdf", "xlsx").
func WithRenderer(format string, r ports.PurchaseListRenderer) Option {
	return func(uc *UseCase) { uc.renderers[strings.ToLower(format)] = r }
}

// UseCase motor de reposición: listas de compras, sugerencias por consumo y política por tenant.
type UseCase struct {
	tx        ports.TxRunner
	repos     ports.Repos
	ledger    *inventory.LedgerUseCase
	locker    ports.TenantLocker
	renderers map[string]ports.PurchaseListRenderer
	defaults  domaininventory.SuggestionParams
	log       *logger.Logger
	metrics   ports.Metrics
	now       ports.Clock
}

// NewUseCase construye el motor. ledger es el único camino para registrar las llegadas.
func NewUseCase(
	tx ports.TxRunner,
	repos ports.Repos,
	ledger *inventory.LedgerUseCase,
	locker ports.TenantLocker,
	log *logger.Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		tx:        tx,
		repos:     repos,
		ledger:    ledger,
		locker:    locker,
		renderers: make(map[string]ports.PurchaseListRenderer),
		defaults:  domaininventory.DefaultSuggestionParams(),
		log:       log,
		metrics:   ports.NopMetrics{},
		now:       ports.SystemClock,
	}
	for _, o := range opts {
		o(uc)
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}
