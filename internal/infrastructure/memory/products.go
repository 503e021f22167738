package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/textnorm"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ base }

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	return r.mutate(func(st *state) error {
		for _, p := range st.products {
			if p.Code == product.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[product.ID] = copyProduct(product)
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.view(func(st *state) { out = copyProduct(st.products[id]) })
	return out, nil
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	r.store.markLocked(id)
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	r.view(func(st *state) {
		for _, p := range st.products {
			if p.Code == code {
				out = copyProduct(p)
				return
			}
		}
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	return r.mutate(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		next := copyProduct(product)
		next.Stock = cur.Stock
		next.Code = cur.Code
		st.products[product.ID] = next
		return nil
	})
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int) error {
	if err := r.store.fail(OpProductUpdateStock); err != nil {
		return err
	}
	return r.mutate(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		if stock < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock = stock
		return nil
	})
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	term := textnorm.Fold(filter.Search)
	var all []*entity.Product
	r.view(func(st *state) {
		for _, p := range st.products {
			if term != "" && !strings.Contains(textnorm.SearchKey(p.Code, p.Name), term) {
				continue
			}
			all = append(all, copyProduct(p))
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *productRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.view(func(st *state) {
		for _, p := range st.products {
			if p.Active && p.IsLowStock() {
				out = append(out, copyProduct(p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].MinStock-out[i].Stock > out[j].MinStock-out[j].Stock
	})
	return paginate(out, limit, 0), nil
}

// paginate aplica limit/offset; limit <= 0 devuelve todo desde offset.
func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
