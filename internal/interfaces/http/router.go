package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/observability"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC          *usecase.ItemUseCase
	LocationUC      *usecase.LocationUseCase
	SupplierUC      *usecase.SupplierUseCase
	ApplyMovement   *inventory.ApplyMovementUseCase
	MovementQueries *inventory.MovementQueryUseCase
	Replenishment   *inventory.ReplenishmentUseCase
	Reports         *report.ReportUseCase
	JWTSecret       string // vacío = sin autenticación
}

// AppOptions configuración del servidor Fiber.
type AppOptions struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SwaggerFile  string // vacío = sin /docs
	Logger       zerolog.Logger
	Metrics      *observability.Metrics // nil = sin /metrics
}

// NewApp construye la aplicación Fiber con middlewares, rutas operativas y la API.
func NewApp(deps RouterDeps, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
		app.Get("/metrics", opts.Metrics.Handler())
	}

	// Swagger UI: http://localhost:<port>/docs
	if opts.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: opts.SwaggerFile,
			Path:     "docs",
			Title:    "Inventory Manager API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API bajo /api.
// Con JWTSecret vacío todas las rutas son públicas y no se aplica RBAC.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authEnabled := deps.JWTSecret != ""
	if authEnabled {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}
	role := func(roles ...string) fiber.Handler {
		if !authEnabled {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return RequireRole(roles...)
	}
	readers := role(RoleAdmin, RoleBodeguero, RoleAuditor)
	admins := role(RoleAdmin)
	operators := role(RoleAdmin, RoleBodeguero)

	// Items (las rutas fijas antes de /:id)
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/search", readers, itemHandler.Search)
	items.Get("/low-stock", readers, itemHandler.LowStock)
	items.Get("/status/:status", readers, itemHandler.ByStatus)
	items.Post("/", admins, itemHandler.Create)
	items.Get("/", readers, itemHandler.List)
	items.Get("/:id", readers, itemHandler.GetByID)
	items.Put("/:id", admins, itemHandler.Update)
	items.Delete("/:id", admins, itemHandler.Delete)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/code/:code", readers, locationHandler.GetByCode)
	locations.Post("/", admins, locationHandler.Create)
	locations.Get("/", readers, locationHandler.List)
	locations.Get("/:id", readers, locationHandler.GetByID)
	locations.Get("/:id/items", readers, locationHandler.Items)
	locations.Put("/:id", admins, locationHandler.Update)
	locations.Delete("/:id", admins, locationHandler.Delete)

	// Suppliers
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/tax/:taxId", readers, supplierHandler.GetByTaxID)
	suppliers.Post("/", admins, supplierHandler.Create)
	suppliers.Get("/", readers, supplierHandler.List)
	suppliers.Get("/:id", readers, supplierHandler.GetByID)
	suppliers.Get("/:id/items", readers, supplierHandler.Items)
	suppliers.Put("/:id", admins, supplierHandler.Update)
	suppliers.Delete("/:id", admins, supplierHandler.Delete)

	// Movements
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.ApplyMovement, deps.MovementQueries)
	movements.Post("/", operators, movementHandler.Apply)
	movements.Get("/", readers, movementHandler.List)
	movements.Get("/date-range", readers, movementHandler.ByDateRange)
	movements.Get("/item/:itemId", readers, movementHandler.ByItem)
	movements.Get("/location/:locationId", readers, movementHandler.ByLocation)
	movements.Get("/:id", readers, movementHandler.GetByID)

	// Reports
	reports := api.Group("/reports", readers)
	reportHandler := NewReportHandler(deps.Reports, deps.Replenishment)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/stock/pdf", reportHandler.StockPDF)
	reports.Get("/stock/location/:locationId", reportHandler.StockByLocation)
	reports.Get("/reconciliation/:itemId", reportHandler.Reconciliation)
	reports.Get("/replenishment", reportHandler.Replenishment)
}
