package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
)

// CashCountHandler arqueos de caja.
type CashCountHandler struct {
	uc *usecase.CashCountUseCase
}

// NewCashCountHandler construye el handler.
func NewCashCountHandler(uc *usecase.CashCountUseCase) *CashCountHandler {
	return &CashCountHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar arqueo de caja del día
// @Tags         cash-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCashCountRequest  true  "Arqueo"
// @Success      201   {object}  dto.CashCountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-counts [post]
func (h *CashCountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCashCountRequest
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
// @Summary      Listar arqueos
// @Tags         cash-counts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashCountListResponse
// @Router       /api/cash-counts [get]
func (h *CashCountHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obtener arqueo
// @Tags         cash-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del arqueo"
// @Success      200  {object}  dto.CashCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-counts/{id} [get]
func (h *CashCountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
