package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Katsud0n0/city-nexus-connect/internal/api/dto"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
)

// StatsHandler exposes the dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Dashboard handles GET /dashboard/stats.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Counts:      dto.NewStatusCountsResponse(dashboard.Counts),
		Departments: dto.NewDepartmentStatResponses(dashboard.Departments),
	}})
}
