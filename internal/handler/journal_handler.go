package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/grid"
	"github.com/noah-isme/journal-go-api/internal/middleware"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/service"
	"github.com/noah-isme/journal-go-api/internal/utils"
)

// JournalHandler wires the journal, grid and lesson HTTP routes.
type JournalHandler struct {
	journals  service.JournalService
	grids     service.GridService
	reconcile service.ReconcileService
	lessons   service.LessonService
	logger    zerolog.Logger
}

// NewJournalHandler constructs the handler.
func NewJournalHandler(journals service.JournalService, grids service.GridService, reconcile service.ReconcileService, lessons service.LessonService, logger zerolog.Logger) *JournalHandler {
	return &JournalHandler{
		journals:  journals,
		grids:     grids,
		reconcile: reconcile,
		lessons:   lessons,
		logger:    logger.With().Str("component", "journal_handler").Logger(),
	}
}

// Register attaches journal endpoints to the router group. The group is
// expected to sit behind the JWT middleware; role gating happens here.
func (h *JournalHandler) Register(router fiber.Router) {
	editors := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleTeacher))
	students := middleware.RequireRole(string(models.RoleStudent))

	router.Get("", h.list)
	router.Get("/:id/grid", editors, h.grid)
	router.Post("/:id/grid", editors, h.save)
	router.Post("/:id/lessons", editors, h.createLesson)
	router.Get("/:id/student-view", students, h.studentView)
}

func (h *JournalHandler) list(c *fiber.Ctx) error {
	journals, err := h.journals.ListJournals(c.Context(), viewerFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	if len(journals) == 0 {
		return utils.SendSuccess(c, "no journals available", journals)
	}
	return utils.SendSuccess(c, "journals retrieved", journals)
}

func (h *JournalHandler) grid(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.grids.BuildGrid(c.Context(), assignmentID, viewerFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grid retrieved", response)
}

func (h *JournalHandler) save(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SaveGridRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.reconcile.Save(c.Context(), assignmentID, viewerFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if result.Applied == 0 {
		return utils.SendSuccess(c, "no changes", result)
	}
	return utils.SendSuccess(c, "saved", result)
}

func (h *JournalHandler) createLesson(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CreateLessonRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.lessons.Create(c.Context(), assignmentID, viewerFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson created", lesson)
}

func (h *JournalHandler) studentView(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	view, err := h.grids.StudentView(c.Context(), assignmentID, viewerFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "journal retrieved", view)
}

func (h *JournalHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrJournalNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "journal not found")
	case errors.Is(err, service.ErrNoLessons):
		return utils.SendError(c, fiber.StatusNotFound, "no lessons in this journal yet")
	case errors.Is(err, service.ErrJournalForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "journal access denied")
	case errors.Is(err, service.ErrGridConflict):
		return utils.SendError(c, fiber.StatusConflict, "journal was modified by another user, reload and retry")
	case errors.Is(err, service.ErrDuplicateLesson):
		return utils.SendError(c, fiber.StatusConflict, "a lesson already exists for this date")
	case errors.Is(err, grid.ErrShapeMismatch):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "edited grid does not match the journal layout")
	case errors.Is(err, service.ErrUnknownRole):
		h.logger.Error().Err(err).Msg("viewer with unknown role reached the journal")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("journal request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
