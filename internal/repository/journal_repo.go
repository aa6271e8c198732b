package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/journal-go-api/internal/grid"
	"github.com/noah-isme/journal-go-api/internal/models"
)

// ErrSerialization marks a transaction the database aborted because it raced
// a concurrent writer over the same rows. Retrying against a fresh baseline
// resolves it.
var ErrSerialization = errors.New("transaction aborted by concurrent writer")

// JournalRepository is the persistence gateway a journal grid is built from
// and reconciled against. InTransaction hands the callback a repository bound
// to one database transaction, so a baseline read and the mutation apply that
// follows it share a single atomic scope.
type JournalRepository interface {
	Lessons(ctx context.Context, assignmentID uint) ([]models.Lesson, error)
	Students(ctx context.Context, groupID uint) ([]models.User, error)
	Grades(ctx context.Context, lessonIDs []uint) ([]models.Grade, error)
	StudentGrades(ctx context.Context, lessonIDs []uint, studentID uint) ([]models.Grade, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	ApplyMutations(ctx context.Context, set grid.MutationSet) (int, error)
	InTransaction(ctx context.Context, fn func(tx JournalRepository) error) error
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository instantiates a GORM-backed repository.
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

// Lessons returns the assignment's lessons in date order; they form the
// ordered column set of the grid.
func (r *journalRepository) Lessons(ctx context.Context, assignmentID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("date ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// Students returns the group's students ordered by full name; they form the
// ordered row set of the grid.
func (r *journalRepository) Students(ctx context.Context, groupID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND role = ?", groupID, models.RoleStudent).
		Order("full_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *journalRepository) Grades(ctx context.Context, lessonIDs []uint) ([]models.Grade, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var grades []models.Grade
	if err := r.db.WithContext(ctx).Where("lesson_id IN ?", lessonIDs).Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *journalRepository) StudentGrades(ctx context.Context, lessonIDs []uint, studentID uint) ([]models.Grade, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var grades []models.Grade
	if err := r.db.WithContext(ctx).
		Where("lesson_id IN ? AND student_id = ?", lessonIDs, studentID).
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

// CreateLesson inserts a lesson. At most one lesson may exist per assignment
// per date; a second insert for the same date fails with ErrDuplicate and
// leaves storage untouched.
func (r *journalRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if err := r.db.WithContext(ctx).Create(lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ApplyMutations executes every operation of the set and returns how many
// were applied. Callers needing atomicity run it inside InTransaction.
func (r *journalRepository) ApplyMutations(ctx context.Context, set grid.MutationSet) (int, error) {
	db := r.db.WithContext(ctx)

	for _, upsert := range set.GradeUpserts {
		row := models.Grade{LessonID: upsert.LessonID, StudentID: upsert.StudentID, Value: upsert.Value}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return 0, err
		}
	}

	for _, del := range set.GradeDeletes {
		if err := db.
			Where("lesson_id = ? AND student_id = ?", del.LessonID, del.StudentID).
			Delete(&models.Grade{}).Error; err != nil {
			return 0, err
		}
	}

	for _, update := range set.TopicUpdates {
		if err := db.Model(&models.Lesson{}).
			Where("id = ?", update.LessonID).
			Update("topic", update.Value).Error; err != nil {
			return 0, err
		}
	}

	for _, update := range set.HomeworkUpdates {
		if err := db.Model(&models.Lesson{}).
			Where("id = ?", update.LessonID).
			Update("homework", update.Value).Error; err != nil {
			return 0, err
		}
	}

	return set.Len(), nil
}

// InTransaction runs fn against a repository bound to one SERIALIZABLE
// transaction. Two concurrent saves that read overlapping lesson or grade
// rows cannot both commit: postgres aborts one of them, and that abort
// surfaces as ErrSerialization. A plain READ COMMITTED transaction would let
// both baselines pass the revision check and silently lose one save.
func (r *journalRepository) InTransaction(ctx context.Context, fn func(tx JournalRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&journalRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if isSerializationFailure(err) {
		return ErrSerialization
	}
	return err
}

// SQLSTATE 40001 is serialization_failure, 40P01 deadlock_detected.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
