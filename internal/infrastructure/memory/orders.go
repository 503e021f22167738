package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*purchaseRepo)(nil)
	_ repository.SaleRepository     = (*saleRepo)(nil)
)

type purchaseRepo struct{ base }

// hydratePurchase copia el agregado y completa los nombres como lo haría un JOIN.
func hydratePurchase(st *state, p *entity.Purchase) *entity.Purchase {
	cp := *p
	if sup, ok := st.suppliers[p.SupplierID]; ok {
		cp.SupplierName = sup.Name
	}
	cp.Items = make([]*entity.PurchaseItem, 0, len(p.Items))
	for _, it := range p.Items {
		item := *it
		if prod, ok := st.products[it.ProductID]; ok {
			item.ProductName = prod.Name
		}
		cp.Items = append(cp.Items, &item)
	}
	return &cp
}

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	if err := r.store.fail(OpPurchaseCreate); err != nil {
		return err
	}
	return r.mutate(func(st *state) error {
		if _, ok := st.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.purchases[p.ID] = hydratePurchase(st, p)
		return nil
	})
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	r.view(func(st *state) {
		if p, ok := st.purchases[id]; ok {
			out = hydratePurchase(st, p)
		}
	})
	return out, nil
}

func (r *purchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) List(_ context.Context, limit, offset int) ([]*entity.Purchase, int, error) {
	var out []*entity.Purchase
	r.view(func(st *state) {
		for _, p := range st.purchases {
			out = append(out, hydratePurchase(st, p))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return paginate(out, limit, offset), len(out), nil
}

func (r *purchaseRepo) Delete(_ context.Context, id string) error {
	if err := r.store.fail(OpPurchaseDelete); err != nil {
		return err
	}
	return r.mutate(func(st *state) error {
		if _, ok := st.purchases[id]; !ok {
			return domain.NotFound("compra", id)
		}
		delete(st.purchases, id)
		return nil
	})
}

type saleRepo struct{ base }

func hydrateSale(st *state, s *entity.Sale) *entity.Sale {
	cp := *s
	if c, ok := st.customers[s.CustomerID]; ok {
		cp.CustomerName = c.Name
	}
	cp.Items = make([]*entity.SaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		item := *it
		if prod, ok := st.products[it.ProductID]; ok {
			item.ProductName = prod.Name
		}
		cp.Items = append(cp.Items, &item)
	}
	return &cp
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if err := r.store.fail(OpSaleCreate); err != nil {
		return err
	}
	return r.mutate(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = hydrateSale(st, s)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.view(func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = hydrateSale(st, s)
		}
	})
	return out, nil
}

func (r *saleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var out []*entity.Sale
	r.view(func(st *state) {
		for _, s := range st.sales {
			if inRange(s.Date, f.From, f.To) {
				out = append(out, hydrateSale(st, s))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	if err := r.store.fail(OpSaleDelete); err != nil {
		return err
	}
	return r.mutate(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.NotFound("venta", id)
		}
		delete(st.sales, id)
		return nil
	})
}

func (r *saleRepo) TotalsByPaymentMethod(_ context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	r.view(func(st *state) {
		for _, s := range st.sales {
			if inRange(s.Date, from, to) {
				out[s.PaymentMethod] = out[s.PaymentMethod].Add(s.Total)
			}
		}
	})
	return out, nil
}
