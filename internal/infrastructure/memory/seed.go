package memory

import (
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// Carga directa de datos maestros. Ignora el ledger: pensado para
// arrancar el modo demo y para preparar escenarios de prueba.

// AddProduct registra p con su stock tal cual.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = copyProduct(p)
}

func (s *Store) AddSupplier(sup *entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sup
	s.data.suppliers[sup.ID] = &cp
}

func (s *Store) AddCustomer(c *entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.data.customers[c.ID] = &cp
}

func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = copyUser(u)
}

// SoftDeleteSupplier marca el proveedor como borrado.
func (s *Store) SoftDeleteSupplier(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sup, ok := s.data.suppliers[id]; ok {
		cp := *sup
		cp.DeletedAt = &at
		s.data.suppliers[id] = &cp
	}
}

// Stock devuelve el stock confirmado del producto (-1 si no existe).
func (s *Store) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data.products[productID]; ok {
		return p.Stock
	}
	return -1
}

// MovementCount total de movimientos confirmados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.movements)
}
