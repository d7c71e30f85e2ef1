package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
)

// LocalScope key de c.Locals con el alcance de tiendas del request.
const LocalScope = "inventory_scope"

// scopeResolver es el contrato mínimo que necesita el middleware para calcular el alcance.
// Lo implementa *inventory.ScopeResolver de la capa de aplicación.
type scopeResolver interface {
	Resolve(ctx context.Context, p *entity.Principal) (inventory.Scope, error)
}

// ResolveScope calcula el alcance del principal una vez por request y lo deja en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay principal en el contexto.
//   - 403 si el rol no tiene acceso al inventario.
//   - 500 si falla la consulta de tiendas del STORE_ADMIN.
func ResolveScope(resolver scopeResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := resolver.Resolve(c.UserContext(), GetPrincipal(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// GetScope devuelve el alcance del request; sin ResolveScope es el alcance vacío (no permite nada).
func GetScope(c *fiber.Ctx) inventory.Scope {
	s, _ := c.Locals(LocalScope).(inventory.Scope)
	return s
}
