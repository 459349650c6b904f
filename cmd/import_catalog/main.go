// import_catalog carga ubicaciones, proveedores y artículos desde un catálogo XML.
// Los artículos con cantidad inicial quedan con su ajuste de saldo inicial en el historial.
//
// Uso: go run ./cmd/import_catalog [-by usuario] catalogo.xml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/catalog"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-manager/pkg/config"
	"github.com/jhoicas/inventory-manager/pkg/logger"
)

func main() {
	performedBy := flag.String("by", "import_catalog", "valor de performed_by en los ajustes de saldo inicial")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_catalog [-by usuario] catalogo.xml")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	c, err := catalog.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	items := postgres.NewItemRepository(pool)
	importer := usecase.NewCatalogImportUseCase(
		usecase.NewItemUseCase(postgres.NewTxRunner(pool), items, log.Zerolog(), cfg.Inventory.AutoStatus, cfg.Inventory.LowStockThreshold),
		usecase.NewLocationUseCase(postgres.NewLocationRepository(pool), items),
		usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool), items),
	)
	res, err := importer.Import(ctx, *performedBy, c)
	if err != nil {
		log.Error().Err(err).
			Int("locations", res.LocationsCreated).
			Int("suppliers", res.SuppliersCreated).
			Int("items", res.ItemsCreated).
			Msg("importación interrumpida")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}
