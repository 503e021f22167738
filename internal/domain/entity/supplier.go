package entity

import "time"

// Supplier proveedor. DeletedAt != nil indica borrado lógico.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
