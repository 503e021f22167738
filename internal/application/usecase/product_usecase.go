package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock se maneja solo vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DomainError{Err: domain.ErrDuplicate, Message: "ya existe un producto con el código " + in.Code}
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.Invalid("los precios no pueden ser negativos")
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Stock:         0,
		MinStock:      in.MinStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.Invalid("purchase_price no puede ser negativo")
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.Invalid("sale_price no puede ser negativo")
		}
		product.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search: page.Search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPage(page.Limit, page.Offset, total),
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
