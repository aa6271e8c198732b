package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/grid"
	"github.com/noah-isme/journal-go-api/internal/observability"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

// ErrGridConflict indicates another actor saved the journal between the
// client's baseline fetch and this save. The client must reload and re-apply
// its edits.
var ErrGridConflict = errors.New("journal was modified by another user")

// ReconcileService diffs a user-edited grid against the stored baseline and
// applies the resulting mutations atomically.
type ReconcileService interface {
	Save(ctx context.Context, assignmentID uint, viewer Viewer, payload dto.SaveGridRequest) (dto.SaveGridResponse, error)
}

type reconcileService struct {
	assignments repository.AssignmentRepository
	journal     repository.JournalRepository
	grids       GridService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewReconcileService constructs the reconciliation engine.
func NewReconcileService(assignments repository.AssignmentRepository, journal repository.JournalRepository, grids GridService, validator *validator.Validate, logger zerolog.Logger) ReconcileService {
	return &reconcileService{
		assignments: assignments,
		journal:     journal,
		grids:       grids,
		validator:   validator,
		logger:      logger.With().Str("component", "reconcile_service").Logger(),
	}
}

// Save runs the full reconciliation cycle: rebuild the baseline, verify the
// client edited the current revision, diff, and apply the mutation set in one
// transaction. Either every mutation commits or none does. An edit that
// changes nothing reports zero applied mutations and performs no writes.
func (s *reconcileService) Save(ctx context.Context, assignmentID uint, viewer Viewer, payload dto.SaveGridRequest) (dto.SaveGridResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/journal-go-api/internal/service/reconcile")
	ctx, span := tracer.Start(ctx, "journal.save")
	span.SetAttributes(
		attribute.Int64("journal.assignment_id", int64(assignmentID)),
		attribute.Int64("journal.actor_id", int64(viewer.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SaveGridResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "journal_lookup_failed")
		return dto.SaveGridResponse{}, translateJournalLookup(err)
	}
	if !canEditJournal(viewer, assignment) {
		span.SetStatus(codes.Error, "forbidden")
		return dto.SaveGridResponse{}, ErrJournalForbidden
	}

	edited, err := editedGridFromPayload(assignmentID, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "shape_mismatch")
		return dto.SaveGridResponse{}, err
	}

	applied := 0
	var set grid.MutationSet
	err = s.journal.InTransaction(ctx, func(tx repository.JournalRepository) error {
		baseline, err := assembleGrid(ctx, tx, assignment)
		if err != nil {
			return err
		}

		if baseline.Revision() != payload.Revision {
			return ErrGridConflict
		}

		set, err = grid.Diff(baseline, edited)
		if err != nil {
			return err
		}
		if set.IsEmpty() {
			return nil
		}

		applied, err = tx.ApplyMutations(ctx, set)
		return err
	})
	if errors.Is(err, repository.ErrSerialization) {
		// the database aborted one of two overlapping saves; to the client
		// this is the same situation as a stale revision
		err = ErrGridConflict
	}
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrGridConflict):
			observability.GridConflicts().Inc()
			span.SetStatus(codes.Error, "revision_conflict")
		case errors.Is(err, grid.ErrShapeMismatch):
			span.SetStatus(codes.Error, "shape_mismatch")
		default:
			span.SetStatus(codes.Error, "apply_failed")
		}
		return dto.SaveGridResponse{}, err
	}

	span.SetAttributes(attribute.Int("journal.applied_mutations", applied))

	if applied > 0 {
		observability.GridMutations().WithLabelValues("upsert").Add(float64(len(set.GradeUpserts)))
		observability.GridMutations().WithLabelValues("delete").Add(float64(len(set.GradeDeletes)))
		observability.GridMutations().WithLabelValues("topic").Add(float64(len(set.TopicUpdates)))
		observability.GridMutations().WithLabelValues("homework").Add(float64(len(set.HomeworkUpdates)))

		s.grids.InvalidateViews(ctx, assignmentID)
		s.logger.Info().
			Uint("assignment_id", assignmentID).
			Uint("actor_id", viewer.ID).
			Int("applied", applied).
			Msg("journal changes saved")
	}

	return dto.SaveGridResponse{Applied: applied}, nil
}

// editedGridFromPayload reconstructs the client's edited grid. Row and column
// identity comes from the payload itself, so a stale or malformed payload
// surfaces as a shape mismatch during the diff rather than being coerced.
func editedGridFromPayload(assignmentID uint, payload dto.SaveGridRequest) (*grid.Grid, error) {
	if len(payload.Topics) != len(payload.Lessons) || len(payload.Homework) != len(payload.Lessons) {
		return nil, grid.ErrShapeMismatch
	}

	columns := make([]grid.LessonColumn, 0, len(payload.Lessons))
	for _, lessonID := range payload.Lessons {
		columns = append(columns, grid.LessonColumn{ID: lessonID})
	}

	rows := make([]grid.StudentRow, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		if len(row.Cells) != len(payload.Lessons) {
			return nil, grid.ErrShapeMismatch
		}
		rows = append(rows, grid.StudentRow{ID: row.StudentID})
	}

	g := grid.New(assignmentID, rows, columns)
	for _, row := range payload.Rows {
		for i, lessonID := range payload.Lessons {
			g.SetGrade(row.StudentID, lessonID, row.Cells[i])
		}
	}
	for i, lessonID := range payload.Lessons {
		g.SetTopic(lessonID, payload.Topics[i])
		g.SetHomework(lessonID, payload.Homework[i])
	}

	return g, nil
}
