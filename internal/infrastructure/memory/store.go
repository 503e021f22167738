// Package memory implementa los repositorios en memoria con transacciones
// de snapshot: Run trabaja sobre una copia del estado y solo la publica si
// fn termina sin error. Las transacciones se serializan con un mutex, lo que
// equivale a bloquear todas las filas durante la transacción.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Operaciones en las que se puede inyectar una falla con FailNext.
const (
	OpProductUpdateStock = "products.update_stock"
	OpMovementCreate     = "movements.create"
	OpPurchaseCreate     = "purchases.create"
	OpPurchaseDelete     = "purchases.delete"
	OpSaleCreate         = "sales.create"
	OpSaleDelete         = "sales.delete"
)

// ErrInjected es el error por defecto de FailNext.
var ErrInjected = errors.New("memory: falla inyectada")

type state struct {
	products   map[string]*entity.Product
	movements  []*entity.StockMovement
	purchases  map[string]*entity.Purchase
	sales      map[string]*entity.Sale
	suppliers  map[string]*entity.Supplier
	customers  map[string]*entity.Customer
	cashCounts map[string]*entity.CashCount
	users      map[string]*entity.User
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		purchases:  map[string]*entity.Purchase{},
		sales:      map[string]*entity.Sale{},
		suppliers:  map[string]*entity.Supplier{},
		customers:  map[string]*entity.Customer{},
		cashCounts: map[string]*entity.CashCount{},
		users:      map[string]*entity.User{},
	}
}

// clone copia los agregados mutables. Movimientos, proveedores, clientes,
// arqueos y usuarios nunca se modifican en sitio, así que se comparten.
func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.movements = append(make([]*entity.StockMovement, 0, len(s.movements)), s.movements...)
	for id, p := range s.purchases {
		c.purchases[id] = p
	}
	for id, v := range s.sales {
		c.sales[id] = v
	}
	for id, v := range s.suppliers {
		c.suppliers[id] = v
	}
	for id, v := range s.customers {
		c.customers[id] = v
	}
	for id, v := range s.cashCounts {
		c.cashCounts[id] = v
	}
	for id, v := range s.users {
		c.users[id] = v
	}
	return c
}

// Store estado en memoria. El valor cero no es usable; usar New.
type Store struct {
	mu       sync.Mutex
	data     *state
	failures map[string]error

	lockMu      sync.Mutex
	lockedReads map[string]int
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		data:        newState(),
		failures:    map[string]error{},
		lockedReads: map[string]int{},
	}
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(&scope{store: s, st: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = working
	return nil
}

// FailNext hace que la próxima invocación de op devuelva err (ErrInjected si es nil).
func (s *Store) FailNext(op string, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.lockMu.Lock()
	s.failures[op] = err
	s.lockMu.Unlock()
}

func (s *Store) fail(op string) error {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

// LockedReads cuántas veces se leyó el producto con bloqueo (GetByIDForUpdate).
func (s *Store) LockedReads(productID string) int {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	return s.lockedReads[productID]
}

func (s *Store) markLocked(productID string) {
	s.lockMu.Lock()
	s.lockedReads[productID]++
	s.lockMu.Unlock()
}

// read ejecuta fn sobre el estado confirmado.
func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// write ejecuta fn sobre el estado confirmado (operaciones de una sola escritura).
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Repositorios sobre el estado confirmado, para lecturas y escrituras fuera de transacción.

func (s *Store) Products() repository.ProductRepository {
	return &productRepo{base{store: s}}
}

func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{base{store: s}}
}

func (s *Store) Purchases() repository.PurchaseRepository {
	return &purchaseRepo{base{store: s}}
}

func (s *Store) Sales() repository.SaleRepository {
	return &saleRepo{base{store: s}}
}

func (s *Store) Suppliers() repository.SupplierRepository {
	return &supplierRepo{base{store: s}}
}

func (s *Store) Customers() repository.CustomerRepository {
	return &customerRepo{base{store: s}}
}

func (s *Store) CashCounts() repository.CashCountRepository {
	return &cashCountRepo{base{store: s}}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{base{store: s}}
}

func (s *Store) Analytics() repository.AnalyticsRepository {
	return &analyticsRepo{base{store: s}}
}

// scope repositorios atados a una transacción en curso.
type scope struct {
	store *Store
	st    *state
}

func (t *scope) Products() repository.ProductRepository {
	return &productRepo{base{store: t.store, tx: t.st}}
}

func (t *scope) Movements() repository.StockMovementRepository {
	return &movementRepo{base{store: t.store, tx: t.st}}
}

func (t *scope) Purchases() repository.PurchaseRepository {
	return &purchaseRepo{base{store: t.store, tx: t.st}}
}

func (t *scope) Sales() repository.SaleRepository {
	return &saleRepo{base{store: t.store, tx: t.st}}
}

func (t *scope) Suppliers() repository.SupplierRepository {
	return &supplierRepo{base{store: t.store, tx: t.st}}
}

func (t *scope) Customers() repository.CustomerRepository {
	return &customerRepo{base{store: t.store, tx: t.st}}
}

// base resuelve el estado sobre el que opera un repositorio.
type base struct {
	store *Store
	tx    *state
}

func (b base) view(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.read(fn)
}

func (b base) mutate(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.store.write(fn)
}
