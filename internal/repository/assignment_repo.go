package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/journal-go-api/internal/models"
)

// AssignmentScope restricts the visible journals. A nil field means "no
// restriction"; both nil lists every assignment (administrator view).
type AssignmentScope struct {
	TeacherID *uint
	GroupID   *uint
}

// AssignmentRepository defines persistence operations for journal bindings.
type AssignmentRepository interface {
	Ensure(ctx context.Context, assignment *models.Assignment) (models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	ListScoped(ctx context.Context, scope AssignmentScope) ([]models.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Ensure inserts the binding if the (group, discipline) pair is not assigned
// yet; re-assigning an existing pair is an idempotent no-op.
func (r *assignmentRepository) Ensure(ctx context.Context, assignment *models.Assignment) (models.Assignment, error) {
	if err := r.db.WithContext(ctx).
		Omit("Group", "Discipline", "Teacher").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "discipline_id"}},
			DoNothing: true,
		}).
		Create(assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	var stored models.Assignment
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND discipline_id = ?", assignment.GroupID, assignment.DisciplineID).
		First(&stored).Error; err != nil {
		return models.Assignment{}, err
	}
	return stored, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Group").Preload("Discipline").Preload("Teacher").
		First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// ListScoped returns the assignments visible under the scope, with group,
// discipline and teacher joined, ordered by discipline name then group name.
func (r *assignmentRepository) ListScoped(ctx context.Context, scope AssignmentScope) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Joins("Group").Joins("Discipline").Joins("Teacher").
		Order("\"Discipline\".\"name\" ASC, \"Group\".\"name\" ASC")

	if scope.TeacherID != nil {
		query = query.Where("assignments.teacher_id = ?", *scope.TeacherID)
	}
	if scope.GroupID != nil {
		query = query.Where("assignments.group_id = ?", *scope.GroupID)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
