package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// AttendanceHandler manages library check-in/check-out endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler builds an attendance handler instance.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches student-facing routes to the provided router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/check-in", h.checkIn)
	router.Get("/active", h.active)
	router.Post("/check-out", h.checkOut)
	router.Get("/history", h.history)
}

// RegisterPrivileged attaches the librarian forced-checkout route.
func (h *AttendanceHandler) RegisterPrivileged(router fiber.Router) {
	router.Post("/:id/force-checkout", h.forceCheckOut)
}

func (h *AttendanceHandler) checkIn(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.CheckInRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.CheckIn(c.Context(), userID, payload)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCheckedIn) {
			// Route the caller to the existing open record instead of erroring.
			active, activeErr := h.service.Active(c.Context(), userID)
			if activeErr == nil {
				return utils.SendSuccessWithStatus(c, fiber.StatusConflict, "already checked in today", active)
			}
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "checked in", record)
}

func (h *AttendanceHandler) active(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	record, err := h.service.Active(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active attendance retrieved", record)
}

func (h *AttendanceHandler) checkOut(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	record, err := h.service.CheckOut(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "checked out", record)
}

func (h *AttendanceHandler) history(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	history, err := h.service.History(c.Context(), userID, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance history retrieved", history)
}

func (h *AttendanceHandler) forceCheckOut(c *fiber.Ctx) error {
	recordID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	actor := service.AuditActor{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}

	record, err := h.service.ForceCheckOut(c.Context(), recordID, actor)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "record force-closed", record)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return utils.SendError(c, fiber.StatusConflict, "already checked in today")
	case errors.Is(err, service.ErrNotCheckedIn):
		return utils.SendError(c, fiber.StatusNotFound, "not currently checked in")
	case errors.Is(err, service.ErrAlreadyClosed):
		return utils.SendError(c, fiber.StatusConflict, "record already closed")
	case errors.Is(err, service.ErrAttendanceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attendance record not found")
	case errors.Is(err, service.ErrUnknownActivity):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown or inactive activity")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
