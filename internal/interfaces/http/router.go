package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockService  *inventory.StockService
	QueryService  *inventory.QueryService
	ScopeResolver *inventory.ScopeResolver
	// MetricsHandler se monta en /metrics si no es nil (promhttp).
	MetricsHandler nethttp.Handler
	ServiceName    string
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api/v1")

	// Inventario (protegido): JWT, rol con acceso y alcance de tiendas resuelto una vez por request
	invGroup := api.Group("/inventory",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleSuperAdmin, entity.RoleStoreAdmin),
		ResolveScope(deps.ScopeResolver),
	)
	inventoryHandler := NewInventoryHandler(deps.StockService, deps.QueryService)
	superAdminOnly := RequireRole(entity.RoleSuperAdmin)

	invGroup.Get("/", inventoryHandler.GetCurrentStock)
	invGroup.Post("/", inventoryHandler.UpdateStock)
	invGroup.Post("/create", superAdminOnly, inventoryHandler.CreateStockEntry)
	invGroup.Get("/history", inventoryHandler.GetHistory)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStockAlerts)
	invGroup.Delete("/:storeId/:productId", superAdminOnly, inventoryHandler.DeleteStockEntry)
}
