package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.SupplierRepository  = (*supplierRepo)(nil)
	_ repository.CustomerRepository  = (*customerRepo)(nil)
	_ repository.UserRepository      = (*userRepo)(nil)
	_ repository.CashCountRepository = (*cashCountRepo)(nil)
)

type supplierRepo struct{ base }

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.view(func(st *state) {
		if s, ok := st.suppliers[id]; ok && s.DeletedAt == nil {
			cp := *s
			out = &cp
		}
	})
	return out, nil
}

type customerRepo struct{ base }

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.view(func(st *state) {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

type userRepo struct{ base }

func copyUser(u *entity.User) *entity.User {
	cp := *u
	cp.Permissions = append([]string(nil), u.Permissions...)
	return &cp
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.view(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
	})
	return out, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.view(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
				return
			}
		}
	})
	return out, nil
}

type cashCountRepo struct{ base }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func (r *cashCountRepo) Create(_ context.Context, c *entity.CashCount) error {
	return r.mutate(func(st *state) error {
		for _, cur := range st.cashCounts {
			if sameDay(cur.Date, c.Date) {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		st.cashCounts[c.ID] = &cp
		return nil
	})
}

func (r *cashCountRepo) GetByID(_ context.Context, id string) (*entity.CashCount, error) {
	var out *entity.CashCount
	r.view(func(st *state) {
		if c, ok := st.cashCounts[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *cashCountRepo) GetByDate(_ context.Context, day time.Time) (*entity.CashCount, error) {
	var out *entity.CashCount
	r.view(func(st *state) {
		for _, c := range st.cashCounts {
			if sameDay(c.Date, day) {
				cp := *c
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *cashCountRepo) List(_ context.Context, limit, offset int) ([]*entity.CashCount, int, error) {
	var out []*entity.CashCount
	r.view(func(st *state) {
		for _, c := range st.cashCounts {
			cp := *c
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, limit, offset), len(out), nil
}
