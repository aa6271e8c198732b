package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/grid"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

var (
	// ErrJournalNotFound indicates the assignment does not exist.
	ErrJournalNotFound = errors.New("journal not found")
	// ErrJournalForbidden indicates the viewer may not access this journal.
	ErrJournalForbidden = errors.New("journal access denied")
	// ErrNoLessons indicates the journal has no lessons yet, so there is no
	// grid to show. This is an empty state, not a failure.
	ErrNoLessons = errors.New("journal has no lessons yet")
)

// GridService assembles the derived tabular views of a journal. Grids are
// recomputed from storage on every read and never persisted.
type GridService interface {
	BuildGrid(ctx context.Context, assignmentID uint, viewer Viewer) (dto.GridResponse, error)
	StudentView(ctx context.Context, assignmentID uint, viewer Viewer) (dto.StudentViewResponse, error)
	InvalidateViews(ctx context.Context, assignmentID uint)
}

type gridService struct {
	assignments repository.AssignmentRepository
	journal     repository.JournalRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewGridService constructs the grid builder. The cache client may be nil,
// in which case student views are always recomputed.
func NewGridService(assignments repository.AssignmentRepository, journal repository.JournalRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GridService {
	return &gridService{
		assignments: assignments,
		journal:     journal,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "grid_service").Logger(),
	}
}

// assembleGrid builds the canonical baseline grid of one assignment from the
// given repository. The reconcile path calls it with a transaction-bound
// repository so the baseline and the mutation apply share one snapshot.
func assembleGrid(ctx context.Context, journal repository.JournalRepository, assignment models.Assignment) (*grid.Grid, error) {
	lessons, err := journal.Lessons(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, ErrNoLessons
	}

	students, err := journal.Students(ctx, assignment.GroupID)
	if err != nil {
		return nil, err
	}

	columns := make([]grid.LessonColumn, 0, len(lessons))
	lessonIDs := make([]uint, 0, len(lessons))
	for _, lesson := range lessons {
		columns = append(columns, grid.LessonColumn{ID: lesson.ID, Date: lesson.Date})
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	rows := make([]grid.StudentRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, grid.StudentRow{ID: student.ID, FullName: student.FullName})
	}

	g := grid.New(assignment.ID, rows, columns)
	for _, lesson := range lessons {
		g.SetTopic(lesson.ID, lesson.Topic)
		g.SetHomework(lesson.ID, lesson.Homework)
	}

	grades, err := journal.Grades(ctx, lessonIDs)
	if err != nil {
		return nil, err
	}
	for _, grade := range grades {
		g.SetGrade(grade.StudentID, grade.LessonID, grade.Value)
	}

	return g, nil
}

// translateJournalLookup maps a storage-level miss onto the service sentinel.
func translateJournalLookup(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJournalNotFound
	}
	return err
}

func (s *gridService) loadJournal(ctx context.Context, assignmentID uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, translateJournalLookup(err)
	}
	return assignment, nil
}

// BuildGrid returns the editable grid for teachers and administrators,
// including the revision the client must submit back on save.
func (s *gridService) BuildGrid(ctx context.Context, assignmentID uint, viewer Viewer) (dto.GridResponse, error) {
	assignment, err := s.loadJournal(ctx, assignmentID)
	if err != nil {
		return dto.GridResponse{}, err
	}
	if !canEditJournal(viewer, assignment) {
		return dto.GridResponse{}, ErrJournalForbidden
	}

	g, err := assembleGrid(ctx, s.journal, assignment)
	if err != nil {
		return dto.GridResponse{}, err
	}

	return dto.NewGridResponse(g), nil
}

// StudentView returns the two read-only projections a student sees for one
// journal: own grades by date, and the lesson plan. The result is cached per
// (assignment, student) until the journal changes or the TTL expires.
func (s *gridService) StudentView(ctx context.Context, assignmentID uint, viewer Viewer) (dto.StudentViewResponse, error) {
	assignment, err := s.loadJournal(ctx, assignmentID)
	if err != nil {
		return dto.StudentViewResponse{}, err
	}
	if viewer.Role != models.RoleStudent || !canViewJournal(viewer, assignment) {
		return dto.StudentViewResponse{}, ErrJournalForbidden
	}

	cacheKey := s.viewCacheKey(ctx, assignmentID, viewer.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentViewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("assignment_id", assignmentID).Uint("student_id", viewer.ID).Msg("student view cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read student view cache")
		}
	}

	lessons, err := s.journal.Lessons(ctx, assignmentID)
	if err != nil {
		return dto.StudentViewResponse{}, err
	}
	if len(lessons) == 0 {
		return dto.StudentViewResponse{}, ErrNoLessons
	}

	lessonIDs := make([]uint, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	grades, err := s.journal.StudentGrades(ctx, lessonIDs, viewer.ID)
	if err != nil {
		return dto.StudentViewResponse{}, err
	}
	gradeByLesson := make(map[uint]string, len(grades))
	for _, grade := range grades {
		gradeByLesson[grade.LessonID] = grade.Value
	}

	response := dto.StudentViewResponse{
		AssignmentID: assignmentID,
		Grades:       make([]dto.StudentGradeEntry, 0, len(lessons)),
		Lessons:      make([]dto.StudentLessonEntry, 0, len(lessons)),
	}
	for _, lesson := range lessons {
		response.Grades = append(response.Grades, dto.StudentGradeEntry{
			Date:  lesson.Date,
			Value: grid.NewCell(gradeByLesson[lesson.ID]).Display(),
		})
		response.Lessons = append(response.Lessons, dto.StudentLessonEntry{
			Date:     lesson.Date,
			Topic:    grid.NewCell(lesson.Topic).Display(),
			Homework: grid.NewCell(lesson.Homework).Display(),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store student view cache")
			}
		}
	}

	return response, nil
}

// InvalidateViews bumps the assignment's view version so every cached student
// projection of that journal is bypassed on the next read. Cached entries age
// out through their TTL.
func (s *gridService) InvalidateViews(ctx context.Context, assignmentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, viewVersionKey(assignmentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Msg("failed to invalidate student view cache")
	}
}

func viewVersionKey(assignmentID uint) string {
	return fmt.Sprintf("journal:view-version:%d", assignmentID)
}

func (s *gridService) viewCacheKey(ctx context.Context, assignmentID, studentID uint) string {
	version := int64(0)
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, viewVersionKey(assignmentID)).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf("journal:view:%d:v%d:student:%d", assignmentID, version, studentID)
}
