package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

// Permisos del vendedor de demostración: vende y consulta, no compra ni ajusta.
var demoSellerPermissions = []string{
	"read:producto", "create:venta", "read:venta", "read:arqueo", "create:arqueo",
}

// seedDemo carga un administrador, un vendedor y un catálogo mínimo en el store en memoria.
// Las existencias iniciales entran como AJUSTE_ENTRADA para que el historial cuadre con el stock.
func seedDemo(ctx context.Context, store *memory.Store, demo config.DemoConfig) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demo.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()

	admin := entity.Actor{ID: uuid.NewString(), Name: "Administrador"}
	store.AddUser(&entity.User{
		ID:           admin.ID,
		Email:        demo.AdminEmail,
		PasswordHash: string(hash),
		Name:         admin.Name,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	store.AddUser(&entity.User{
		ID:           uuid.NewString(),
		Email:        "vendedor@pos.local",
		PasswordHash: string(hash),
		Name:         "Vendedor",
		Role:         entity.RoleVendedor,
		Permissions:  demoSellerPermissions,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	store.AddSupplier(&entity.Supplier{
		ID: uuid.NewString(), Name: "Distribuidora Central", TaxID: "900123456-7",
		CreatedAt: now, UpdatedAt: now,
	})
	store.AddCustomer(&entity.Customer{
		ID: uuid.NewString(), Name: "Cliente Frecuente", TaxID: "1020304050",
		CreatedAt: now, UpdatedAt: now,
	})

	catalog := []struct {
		code, name      string
		cost, price     int64
		stock, minStock int
	}{
		{"CAF-500", "Café molido 500 g", 12000, 18000, 24, 10},
		{"AZU-1K", "Azúcar 1 kg", 3200, 4500, 40, 15},
		{"ARR-1K", "Arroz 1 kg", 3500, 4800, 8, 20},
		{"ACE-1L", "Aceite de girasol 1 L", 9000, 12500, 0, 6},
	}
	initial := make(map[string]int, len(catalog))
	for _, item := range catalog {
		id := uuid.NewString()
		store.AddProduct(&entity.Product{
			ID:            id,
			Code:          item.code,
			Name:          item.name,
			PurchasePrice: decimal.NewFromInt(item.cost),
			SalePrice:     decimal.NewFromInt(item.price),
			MinStock:      item.minStock,
			Active:        true,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if item.stock > 0 {
			initial[id] = item.stock
		}
	}

	ledger := inventory.NewLedger(store.Movements())
	return store.Run(ctx, func(repos repository.Repositories) error {
		for id, qty := range initial {
			if _, err := ledger.Record(ctx, repos, admin, inventory.RecordInput{
				ProductID: id,
				Type:      entity.MovementTypeAjusteEntrada,
				Origin:    entity.OriginAjusteManual,
				Quantity:  qty,
				Notes:     "Inventario inicial",
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
