package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/cache"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventory-manager/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-manager/internal/interfaces/http"
	"github.com/jhoicas/inventory-manager/internal/observability"
	"github.com/jhoicas/inventory-manager/pkg/config"
	"github.com/jhoicas/inventory-manager/pkg/logger"
)

// backend repositorios del driver de almacenamiento elegido.
type backend struct {
	tx        inventory.TxRunner
	items     repository.ItemRepository
	locations repository.LocationRepository
	suppliers repository.SupplierRepository
	movements repository.MovementRepository
	reports   repository.ReportRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	metrics := observability.NewMetrics()
	opts := inventory.Options{
		AutoStatus: cfg.Inventory.AutoStatus,
		Recorder:   metrics,
	}

	// Redis es opcional: sin REDIS_ADDR el header Idempotency-Key se ignora
	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		opts.Guard = cache.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.IdempotencyTTL).Msg("idempotencia con Redis activa")
	}

	itemUC := usecase.NewItemUseCase(store.tx, store.items, log.Component("items"), cfg.Inventory.AutoStatus, cfg.Inventory.LowStockThreshold)
	locationUC := usecase.NewLocationUseCase(store.locations, store.items)
	supplierUC := usecase.NewSupplierUseCase(store.suppliers, store.items)
	applyUC := inventory.NewApplyMovementUseCase(store.tx, log.Component("movements"), opts)
	queriesUC := inventory.NewMovementQueryUseCase(store.movements, store.items, store.locations)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.items, store.movements, cfg.Inventory.LowStockThreshold)
	reportUC := report.NewReportUseCase(store.reports, store.locations, store.tx,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name))

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	}

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		ItemUC:          itemUC,
		LocationUC:      locationUC,
		SupplierUC:      supplierUC,
		ApplyMovement:   applyUC,
		MovementQueries: queriesUC,
		Replenishment:   replenishmentUC,
		Reports:         reportUC,
		JWTSecret:       cfg.JWT.Secret,
	}, httpRouter.AppOptions{
		Name:         cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		SwaggerFile:  swaggerFile("./docs/swagger.json"),
		Logger:       log.Component("http"),
		Metrics:      metrics,
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

// openBackend abre PostgreSQL (aplicando migraciones pendientes) o el almacén en memoria.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		s := memory.New()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &backend{
			tx:        s,
			items:     s.Items(),
			locations: s.Locations(),
			suppliers: s.Suppliers(),
			movements: s.Movements(),
			reports:   s.Reports(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool, log.Component("migrate"))
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")

	return &backend{
		tx:        postgres.NewTxRunner(pool),
		items:     postgres.NewItemRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		suppliers: postgres.NewSupplierRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		reports:   postgres.NewReportRepository(pool),
		close:     pool.Close,
	}, nil
}

// swaggerFile devuelve path si existe; el middleware de swagger falla al arrancar sin el archivo.
func swaggerFile(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
