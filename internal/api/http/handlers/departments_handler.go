package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Katsud0n0/city-nexus-connect/internal/api/dto"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
)

// DepartmentsHandler exposes the fixed department directory.
type DepartmentsHandler struct {
	stats *service.StatsService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(statsService *service.StatsService) *DepartmentsHandler {
	return &DepartmentsHandler{stats: statsService}
}

// List handles GET /departments: all ten departments with request volumes,
// in enumeration order.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	counts, err := h.stats.CountsByDepartment(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentStatResponses(counts)})
}
