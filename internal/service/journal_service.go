package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

// ErrUnknownRole indicates a viewer carries a role the journal does not
// recognise. This is a configuration defect, not a user error.
var ErrUnknownRole = errors.New("unknown viewer role")

// JournalService lists the journals visible to a viewer.
type JournalService interface {
	ListJournals(ctx context.Context, viewer Viewer) ([]dto.JournalResponse, error)
}

type journalService struct {
	assignments repository.AssignmentRepository
	logger      zerolog.Logger
}

// NewJournalService constructs the journal selector.
func NewJournalService(assignments repository.AssignmentRepository, logger zerolog.Logger) JournalService {
	return &journalService{
		assignments: assignments,
		logger:      logger.With().Str("component", "journal_service").Logger(),
	}
}

// scopeForViewer maps a role onto the single query predicate used for the
// listing. Filters are never assembled from strings.
func scopeForViewer(viewer Viewer) (repository.AssignmentScope, error) {
	switch viewer.Role {
	case models.RoleAdmin:
		return repository.AssignmentScope{}, nil
	case models.RoleTeacher:
		teacherID := viewer.ID
		return repository.AssignmentScope{TeacherID: &teacherID}, nil
	case models.RoleStudent:
		if viewer.GroupID == nil {
			// a student without a group sees nothing rather than everything
			zero := uint(0)
			return repository.AssignmentScope{GroupID: &zero}, nil
		}
		return repository.AssignmentScope{GroupID: viewer.GroupID}, nil
	default:
		return repository.AssignmentScope{}, ErrUnknownRole
	}
}

// ListJournals returns the viewer's journals ordered by discipline then group
// name. An empty list is a valid result, not an error.
func (s *journalService) ListJournals(ctx context.Context, viewer Viewer) ([]dto.JournalResponse, error) {
	scope, err := scopeForViewer(viewer)
	if err != nil {
		s.logger.Error().Uint("viewer_id", viewer.ID).Str("role", string(viewer.Role)).Msg("viewer has unknown role")
		return nil, err
	}

	assignments, err := s.assignments.ListScoped(ctx, scope)
	if err != nil {
		return nil, err
	}

	return dto.NewJournalResponseSlice(assignments), nil
}
