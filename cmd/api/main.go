package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL en producción, memoria para desarrollo local.
	var (
		txRunner ports.TxRunner
		repos    ports.Repos
	)
	switch cfg.App.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones al día")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
	default:
		store := memory.New()
		txRunner = store
		repos = store.Repos()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	}

	// Redis opcional: candado distribuido y canal de alertas.
	var (
		rdb    *redis.Client
		locker ports.TenantLocker = lock.NewKeyedLocker()
	)
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockPrefix, cfg.Redis.LockTTL, log)
	}

	var publisher ports.AlertPublisher
	switch cfg.Alerts.Publisher {
	case "redis":
		publisher = notify.NewRedisPublisher(rdb, cfg.Redis.AlertChannelPrefix)
	case "both":
		publisher = notify.Fanout{notify.NewLogPublisher(log), notify.NewRedisPublisher(rdb, cfg.Redis.AlertChannelPrefix)}
	default:
		publisher = notify.NewLogPublisher(log)
	}

	m := metrics.New("ledger")
	emitter := alert.NewEmitter(repos, publisher, m, log, ports.SystemClock)

	itemUC := inventory.NewItemUseCase(repos)
	batchUC := inventory.NewBatchUseCase(repos)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos, emitter, log, inventory.WithMetrics(m))
	replenishmentUC := replenishment.NewUseCase(txRunner, repos, ledgerUC, locker, log,
		replenishment.WithMetrics(m),
		replenishment.WithDefaults(domaininventory.SuggestionParams{
			WindowDays:   cfg.Replenishment.WindowDays,
			SafetyFactor: cfg.Replenishment.SafetyFactor,
			CoverDays:    cfg.Replenishment.CoverDays,
			Confidence:   cfg.Replenishment.Confidence,
		}),
		replenishment.WithRenderer("pdf", infrapdf.NewPurchaseListPDF(cfg.Replenishment.CompanyName)),
		replenishment.WithRenderer("xlsx", infraxlsx.NewPurchaseListXLSX()),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs (el middleware exige que el archivo exista)
	if cfg.HTTP.EnableSwagger {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Inventario Ledger API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger habilitado pero el archivo no existe")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:              itemUC,
		Ledger:             ledgerUC,
		Batches:            batchUC,
		Replenishment:      replenishmentUC,
		Alerts:             emitter,
		ImportParser:       infraxlsx.ParseMovements,
		Requests:           m,
		MetricsHandler:     m.Handler(),
		Log:                log,
		JWTSecret:          cfg.JWT.Secret,
		ExpiringWithinDays: cfg.Alerts.ExpiringWithinDays,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
