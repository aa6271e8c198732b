package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/service"
	"github.com/noah-isme/journal-go-api/internal/utils"
)

// AdminHandler wires the administrator entity management routes.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin endpoints to the router group. The group must sit
// behind JWT plus an admin role guard.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Post("/users", h.createUser)
	router.Get("/teachers", h.listTeachers)
	router.Get("/groups", h.listGroups)
	router.Post("/groups", h.createGroup)
	router.Get("/disciplines", h.listDisciplines)
	router.Post("/disciplines", h.createDiscipline)
	router.Get("/assignments", h.listAssignments)
	router.Post("/assignments", h.createAssignment)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	var payload dto.CreateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.CreateUser(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			return utils.SendError(c, fiber.StatusConflict, "username already exists")
		case errors.Is(err, service.ErrStudentGroupRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "student accounts require a group")
		case errors.Is(err, service.ErrGroupNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *AdminHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AdminHandler) listGroups(c *fiber.Ctx) error {
	groups, err := h.service.ListGroups(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "groups retrieved", groups)
}

func (h *AdminHandler) createGroup(c *fiber.Ctx) error {
	var payload dto.CreateGroupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	group, err := h.service.CreateGroup(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group ensured", group)
}

func (h *AdminHandler) listDisciplines(c *fiber.Ctx) error {
	disciplines, err := h.service.ListDisciplines(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "disciplines retrieved", disciplines)
}

func (h *AdminHandler) createDiscipline(c *fiber.Ctx) error {
	var payload dto.CreateDisciplineRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	discipline, err := h.service.CreateDiscipline(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discipline ensured", discipline)
}

func (h *AdminHandler) listAssignments(c *fiber.Ctx) error {
	assignments, err := h.service.ListAssignments(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AdminHandler) createAssignment(c *fiber.Ctx) error {
	var payload dto.CreateAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.CreateAssignment(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherRoleRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "assigned user must have the teacher role")
		case errors.Is(err, service.ErrGroupNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		case errors.Is(err, service.ErrDisciplineNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "discipline not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment ensured", assignment)
}

func (h *AdminHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("admin request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
