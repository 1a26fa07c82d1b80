package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/service"
	"github.com/gradegenie/gradegenie-api/internal/utils"
)

// ClassroomHandler wires the roster HTTP routes.
type ClassroomHandler struct {
	service service.ClassroomService
	logger  zerolog.Logger
}

// NewClassroomHandler constructs the handler.
func NewClassroomHandler(service service.ClassroomService, logger zerolog.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		service: service,
		logger:  logger.With().Str("component", "classroom_handler").Logger(),
	}
}

// RegisterClasses attaches class endpoints to the router group.
func (h *ClassroomHandler) RegisterClasses(router fiber.Router) {
	router.Get("", h.listClasses)
	router.Post("", h.createClass)
	router.Get("/:id", h.getClass)
}

// RegisterStudents attaches student roster endpoints to the router group.
func (h *ClassroomHandler) RegisterStudents(router fiber.Router) {
	router.Get("", h.listStudents)
	router.Post("", h.createStudent)
}

// RegisterTeachers attaches co-teacher roster endpoints to the router group.
func (h *ClassroomHandler) RegisterTeachers(router fiber.Router) {
	router.Get("", h.listTeachers)
	router.Post("", h.createTeacher)
}

func (h *ClassroomHandler) listClasses(c *fiber.Ctx) error {
	classes, err := h.service.ListClasses(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassroomHandler) getClass(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.service.GetClass(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassroomHandler) createClass(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.CreateClass(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassroomHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.service.ListStudents(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *ClassroomHandler) createStudent(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.CreateStudent(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student added", student)
}

func (h *ClassroomHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *ClassroomHandler) createTeacher(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.CreateTeacher(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher added", teacher)
}

func (h *ClassroomHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ClassroomHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
