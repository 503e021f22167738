package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// InventoryHandler expone el ledger de movimientos.
type InventoryHandler struct {
	register *inventory.RegisterMovementUseCase
	ledger   *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(register *inventory.RegisterMovementUseCase, ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{register: register, ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.register.Register(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Consultar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        type          query  string  false  "Tipo"
// @Param        origin        query  string  false  "Origen"
// @Param        reference_id  query  string  false  "Compra o venta"
// @Param        limit         query  int     false  "Límite"  default(10)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	list, total, err := h.ledger.List(c.UserContext(), repository.MovementFilter{
		ProductID:   q.ProductID,
		Type:        q.Type,
		Origin:      q.Origin,
		ReferenceID: q.ReferenceID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.MovementListResponse{
		Items: inventory.ToMovementResponses(list),
		Page:  dto.NewPage(page.Limit, page.Offset, total),
	})
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.ledger.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

// Update siempre responde AUDIT_IMMUTABLE.
// @Router /api/inventory/movements/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	return h.ledger.Update(c.UserContext(), c.Params("id"))
}

// Delete siempre responde AUDIT_IMMUTABLE.
// @Router /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	return h.ledger.Delete(c.UserContext(), c.Params("id"))
}

// ByProduct godoc
// @Summary      Historial de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Límite"  default(10)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/products/{productId}/movements [get]
func (h *InventoryHandler) ByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	page.DefaultPage()
	list, total, err := h.ledger.ListByProduct(c.UserContext(), c.Params("productId"), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.MovementListResponse{
		Items: inventory.ToMovementResponses(list),
		Page:  dto.NewPage(page.Limit, page.Offset, total),
	})
}

// ByReference godoc
// @Summary      Movimientos de una compra o venta, en orden de registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        referenceId  path  string  true  "ID de la compra o venta"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/references/{referenceId}/movements [get]
func (h *InventoryHandler) ByReference(c *fiber.Ctx) error {
	list, err := h.ledger.ListByReference(c.UserContext(), c.Params("referenceId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.MovementListResponse{
		Items: inventory.ToMovementResponses(list),
		Page:  dto.NewPage(len(list), 0, len(list)),
	})
}
