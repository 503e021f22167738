package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct{ base }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.store.fail(OpMovementCreate); err != nil {
		return err
	}
	cp := *m
	return r.mutate(func(st *state) error {
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.view(func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				out = hydrateMovement(st, m)
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var out []*entity.StockMovement
	r.view(func(st *state) {
		// de la más reciente a la más antigua; sort estable conserva ese orden en empates
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.Origin != "" && m.Origin != f.Origin {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			out = append(out, hydrateMovement(st, m))
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovedAt.After(out[j].MovedAt) })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *movementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.view(func(st *state) {
		for _, m := range st.movements {
			if m.ReferenceID == referenceID {
				out = append(out, hydrateMovement(st, m))
			}
		}
	})
	return out, nil
}

// hydrateMovement copia el movimiento con los datos de producto y usuario,
// como hace el JOIN de PostgreSQL.
func hydrateMovement(st *state, m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	if p, ok := st.products[m.ProductID]; ok {
		cp.ProductCode, cp.ProductName = p.Code, p.Name
	}
	if u, ok := st.users[m.UserID]; ok {
		cp.UserName = u.Name
	}
	return &cp
}
