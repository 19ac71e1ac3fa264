package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// ReportHandler serves the librarian dashboard and monthly reports.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler builds a report handler instance.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Get("/report/:year/:month", h.monthlyReport)
}

func (h *ReportHandler) dashboard(c *fiber.Ctx) error {
	response, err := h.service.Dashboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *ReportHandler) monthlyReport(c *fiber.Ctx) error {
	year, err := parseIntParam(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	month, err := parseIntParam(c, "month")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	}

	response, err := h.service.MonthlyReport(c.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to build monthly report")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "monthly report generated", response)
}
