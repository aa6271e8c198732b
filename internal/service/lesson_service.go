package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

// ErrDuplicateLesson indicates the journal already has a lesson on that date.
var ErrDuplicateLesson = errors.New("a lesson already exists for this date")

// LessonService creates lessons within a journal.
type LessonService interface {
	Create(ctx context.Context, assignmentID uint, viewer Viewer, payload dto.CreateLessonRequest) (dto.LessonResponse, error)
}

type lessonService struct {
	assignments repository.AssignmentRepository
	journal     repository.JournalRepository
	grids       GridService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewLessonService constructs the lesson service.
func NewLessonService(assignments repository.AssignmentRepository, journal repository.JournalRepository, grids GridService, validator *validator.Validate, logger zerolog.Logger) LessonService {
	return &lessonService{
		assignments: assignments,
		journal:     journal,
		grids:       grids,
		validator:   validator,
		logger:      logger.With().Str("component", "lesson_service").Logger(),
	}
}

// Create adds one lesson for a calendar date. A second lesson on the same
// date is rejected and leaves the journal untouched. Topic and homework may
// be empty and can be filled in later through the grid.
func (s *lessonService) Create(ctx context.Context, assignmentID uint, viewer Viewer, payload dto.CreateLessonRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.LessonResponse{}, translateJournalLookup(err)
	}
	if !canEditJournal(viewer, assignment) {
		return dto.LessonResponse{}, ErrJournalForbidden
	}

	lesson := models.Lesson{
		AssignmentID: assignmentID,
		Date:         payload.Date,
		Topic:        payload.Topic,
		Homework:     payload.Homework,
	}
	if err := s.journal.CreateLesson(ctx, &lesson); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.LessonResponse{}, ErrDuplicateLesson
		}
		return dto.LessonResponse{}, err
	}

	s.grids.InvalidateViews(ctx, assignmentID)
	s.logger.Info().
		Uint("assignment_id", assignmentID).
		Str("date", lesson.Date).
		Uint("actor_id", viewer.ID).
		Msg("lesson created")

	return dto.NewLessonResponse(lesson), nil
}
