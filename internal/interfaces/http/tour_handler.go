package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/application/usecase"
	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// TourHandler maneja el CRUD de tours.
type TourHandler struct {
	uc *usecase.TourUseCase
}

// NewTourHandler construye el handler.
func NewTourHandler(uc *usecase.TourUseCase) *TourHandler {
	return &TourHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tour
// @Tags         tours
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTourRequest  true  "Datos del tour"
// @Success      201   {object}  dto.TourResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/tours [post]
func (h *TourHandler) Create(c *fiber.Ctx, user *entity.User) error {
	var in dto.CreateTourRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.UserContext(), user.ID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener tour por ID
// @Tags         tours
// @Produce      json
// @Param        id   path  string  true  "ID del tour"
// @Success      200  {object}  dto.TourResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/tours/{id} [get]
func (h *TourHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tours
// @Tags         tours
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.TourListResponse
// @Router       /api/v1/tours [get]
func (h *TourHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tour
// @Tags         tours
// @Security     Bearer
// @Param        id   path  string  true  "ID del tour"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/tours/{id} [delete]
func (h *TourHandler) Delete(c *fiber.Ctx, _ *entity.User) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
