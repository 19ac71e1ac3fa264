package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// SweepHandler lets librarians trigger the auto-checkout sweep outside
// the scheduled closing time, e.g. on early-dismissal days.
type SweepHandler struct {
	service  service.SweepService
	location *time.Location
	logger   zerolog.Logger
}

// NewSweepHandler builds a sweep handler instance.
func NewSweepHandler(service service.SweepService, location *time.Location, logger zerolog.Logger) *SweepHandler {
	if location == nil {
		location = time.Local
	}

	return &SweepHandler{
		service:  service,
		location: location,
		logger:   logger.With().Str("component", "sweep_handler").Logger(),
	}
}

// Register attaches the manual sweep route to the provided router group.
func (h *SweepHandler) Register(router fiber.Router) {
	router.Post("/sweep", h.run)
}

func (h *SweepHandler) run(c *fiber.Ctx) error {
	result, err := h.service.RunDailySweep(c.Context(), time.Now().In(h.location))
	if err != nil {
		h.logger.Error().Err(err).Msg("manual sweep failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "sweep failed")
	}

	response := dto.SweepResultResponse{ClosedCount: result.ClosedCount}
	if len(result.Errors) > 0 {
		response.Errors = make(map[uint]string, len(result.Errors))
		for id, recordErr := range result.Errors {
			response.Errors[id] = recordErr.Error()
		}
	}

	return utils.SendSuccess(c, "sweep completed", response)
}
