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

// UsersHandler exposes auth and profile endpoints.
type UsersHandler struct {
	auth     *service.AuthService
	requests *service.RequestService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, requestService *service.RequestService) *UsersHandler {
	return &UsersHandler{auth: authService, requests: requestService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.FullName == "" || req.Department == "" || req.Password == "" {
		return apperrors.NewValidationError("username, fullName, department, password required", nil)
	}
	if !domain.IsValidDepartment(req.Department) {
		return apperrors.NewValidationError("unknown department", map[string]any{"department": req.Department})
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Username, req.FullName, req.Department, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// List handles GET /users, the team directory.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// MyRequests handles GET /users/me/requests, the profile request history.
func (h *UsersHandler) MyRequests(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	requests, err := h.requests.ListByUser(c.UserContext(), user.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}
