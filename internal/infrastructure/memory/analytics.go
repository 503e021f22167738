package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*analyticsRepo)(nil)

type analyticsRepo struct{ base }

func (r *analyticsRepo) GetCatalogMetrics(_ context.Context) (repository.CatalogMetrics, error) {
	var m repository.CatalogMetrics
	r.view(func(st *state) {
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			m.ActiveProducts++
			if p.IsLowStock() {
				m.LowStock++
			}
		}
	})
	return m, nil
}

func (r *analyticsRepo) GetSalesMetrics(_ context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	var m repository.SalesMetrics
	r.view(func(st *state) {
		for _, s := range st.sales {
			if inRange(s.Date, from, to) {
				m.Count++
				m.Revenue = m.Revenue.Add(s.Total)
			}
		}
	})
	return m, nil
}

func (r *analyticsRepo) GetTopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	acc := map[string]*repository.TopProduct{}
	r.view(func(st *state) {
		for _, s := range st.sales {
			if !inRange(s.Date, from, to) {
				continue
			}
			for _, it := range s.Items {
				tp, ok := acc[it.ProductID]
				if !ok {
					tp = &repository.TopProduct{ProductID: it.ProductID}
					if p, found := st.products[it.ProductID]; found {
						tp.Code, tp.Name = p.Code, p.Name
					}
					acc[it.ProductID] = tp
				}
				tp.QuantitySold += it.Quantity
				tp.Revenue = tp.Revenue.Add(it.Subtotal)
			}
		}
	})
	out := make([]repository.TopProduct, 0, len(acc))
	for _, tp := range acc {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold == out[j].QuantitySold {
			return out[i].Name < out[j].Name
		}
		return out[i].QuantitySold > out[j].QuantitySold
	})
	return paginate(out, limit, 0), nil
}
