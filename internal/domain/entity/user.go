package entity

import "time"

// Roles conocidos. RoleAdmin tiene todos los permisos.
const (
	RoleAdmin    = "admin"
	RoleBodega   = "bodeguero"
	RoleVendedor = "vendedor"
)

// User usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Permissions  []string // ej. "create:venta", "read:compra"
	Status       string   // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es el usuario que ejecuta una operación. Se pasa explícitamente
// a cada caso de uso que deja rastro de auditoría.
type Actor struct {
	ID   string
	Name string
}

// Valid indica si el actor tiene identidad.
func (a Actor) Valid() bool { return a.ID != "" }
