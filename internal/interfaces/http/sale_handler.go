package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
)

// SaleHandler ventas y comprobantes.
type SaleHandler struct {
	uc      *sales.SaleUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receipt}
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
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
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit       query  int     false  "Límite"  default(10)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update responde AUDIT_IMMUTABLE.
// @Router /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	return h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"))
}

// Delete godoc
// @Summary      Anular venta (devuelve el stock)
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.receipt.Generate(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="venta-%s.pdf"`, id))
	return c.Send(pdf)
}
