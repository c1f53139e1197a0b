// seed carga un catálogo YAML de ítems (con stock inicial opcional) en la base PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/catalogo.yaml]
// Por defecto busca catalog.yaml en el directorio actual. Usa la misma configuración que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	path := "catalog.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir catálogo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := loadCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repos := postgres.NewRepos(pool)
	s := &seeder{
		items:  inventory.NewItemUseCase(repos),
		ledger: inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), repos, nil, log),
		repo:   repos.Items,
	}
	res, err := s.run(ctx, cat)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Str("tenant_id", cat.TenantID).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("opening_movements", res.Openings).
		Msg("catálogo cargado")
}
