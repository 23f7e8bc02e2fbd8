package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/facility-desk/internal/api/dto"
	"github.com/campusops/facility-desk/internal/auth"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/report"
	"github.com/campusops/facility-desk/internal/service"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

// AdminHandler serves the dashboard statistics and report export.
type AdminHandler struct {
	requests *service.RequestService
	now      func() time.Time
}

// NewAdminHandler constructs handler.
func NewAdminHandler(requests *service.RequestService) *AdminHandler {
	return &AdminHandler{requests: requests, now: time.Now}
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseRequestFilter(c)
	if err != nil {
		return err
	}
	stats, err := h.requests.ComputeStats(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

// ExportRequests GET /admin/reports/requests.xlsx.
func (h *AdminHandler) ExportRequests(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseRequestFilter(c)
	if err != nil {
		return err
	}
	requests, err := h.requests.ListVisible(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	stats := service.ComputeStats(requests, h.now().UTC())

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, requests, stats); err != nil {
		return apperrors.NewInternalError(err)
	}
	fileName := fmt.Sprintf("requests_%s.xlsx", h.now().Format(dateLayout))
	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Send(buf.Bytes())
}

func statsResponse(stats domain.Stats) dto.StatsResponse {
	breakdown := make([]dto.CategoryCountResponse, 0, len(stats.CategoryBreakdown))
	for _, entry := range stats.CategoryBreakdown {
		breakdown = append(breakdown, dto.CategoryCountResponse{
			Name:  entry.Name,
			Label: entry.Name.Label(),
			Value: entry.Count,
		})
	}
	return dto.StatsResponse{
		Total:              stats.Total,
		Pending:            stats.Pending,
		Completed:          stats.Completed,
		AvgCompletionHours: stats.AvgCompletionHours,
		CategoryBreakdown:  breakdown,
	}
}
