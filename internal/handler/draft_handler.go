package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradegenie/gradegenie-api/internal/service"
	"github.com/gradegenie/gradegenie-api/internal/utils"
)

// DraftHandler wires the wizard draft persistence routes.
type DraftHandler struct {
	service service.DraftService
	logger  zerolog.Logger
}

// NewDraftHandler constructs the handler.
func NewDraftHandler(service service.DraftService, logger zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		service: service,
		logger:  logger.With().Str("component", "draft_handler").Logger(),
	}
}

// Register attaches the draft endpoints to the router group.
func (h *DraftHandler) Register(router fiber.Router) {
	router.Get("/wizard", h.get)
	router.Put("/wizard", h.save)
	router.Delete("/wizard", h.clear)
}

func (h *DraftHandler) get(c *fiber.Ctx) error {
	draft, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft retrieved", draft)
}

func (h *DraftHandler) save(c *fiber.Ctx) error {
	body := json.RawMessage(c.Body())
	if err := h.service.Save(c.Context(), userIDFromContext(c), body); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft saved", nil)
}

func (h *DraftHandler) clear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.Context(), userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft cleared", nil)
}

func (h *DraftHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "wizard draft not found")
	case errors.Is(err, service.ErrDraftStoreUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "draft store unavailable")
	case errors.Is(err, service.ErrInvalidResource):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
