package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/purchases"
)

// PurchaseHandler compras a proveedor.
type PurchaseHandler struct {
	uc *purchases.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(10)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update responde AUDIT_IMMUTABLE: una compra se anula y se vuelve a crear.
// @Router /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	return h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"))
}

// Delete godoc
// @Summary      Anular compra (revierte el stock)
// @Tags         purchases
// @Security     Bearer
// @Param        id   path  string  true  "ID de la compra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
