package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Katsud0n0/city-nexus-connect/internal/api/dto"
	"github.com/Katsud0n0/city-nexus-connect/internal/auth"
	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
	apperrors "github.com/Katsud0n0/city-nexus-connect/pkg/util"
)

// RequestsHandler exposes the request lifecycle endpoints.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requestService}
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.Department == "" {
		return apperrors.NewValidationError("title, description, department required", nil)
	}

	request, err := h.requests.Create(c.UserContext(), service.RequestCreateInput{
		Username:    user.Username,
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// List handles GET /requests with optional status and search query filters.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	filter := service.RequestListFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := domain.RequestStatus(raw)
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		filter.Status = &status
	}

	requests, err := h.requests.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}

// Get handles GET /requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	request, err := h.requests.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// UpdateStatus handles PATCH /requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	request, err := h.requests.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// Delete handles DELETE /requests/:id.
func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	if err := h.requests.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
