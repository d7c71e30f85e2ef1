package entity

// Roles reconocidos en los tokens.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleStoreAdmin = "STORE_ADMIN"
	RoleUser       = "USER"
)

// Principal es la identidad autenticada que entrega el middleware de auth.
type Principal struct {
	ID   string
	Role string
}
