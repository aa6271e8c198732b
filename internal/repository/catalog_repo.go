package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/journal-go-api/internal/models"
)

// GroupRepository defines persistence operations for study groups.
type GroupRepository interface {
	Ensure(ctx context.Context, name string) (models.Group, error)
	GetByID(ctx context.Context, id uint) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
}

// DisciplineRepository defines persistence operations for disciplines.
type DisciplineRepository interface {
	Ensure(ctx context.Context, name string) (models.Discipline, error)
	GetByID(ctx context.Context, id uint) (models.Discipline, error)
	List(ctx context.Context) ([]models.Discipline, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository instantiates a GORM-backed repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Ensure inserts the group if missing and returns the stored row either way.
// Re-creating an existing group is an idempotent no-op, not an error.
func (r *groupRepository) Ensure(ctx context.Context, name string) (models.Group, error) {
	group := models.Group{Name: name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&group).Error; err != nil {
		return models.Group{}, err
	}

	var stored models.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&stored).Error; err != nil {
		return models.Group{}, err
	}
	return stored, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

type disciplineRepository struct {
	db *gorm.DB
}

// NewDisciplineRepository instantiates a GORM-backed repository.
func NewDisciplineRepository(db *gorm.DB) DisciplineRepository {
	return &disciplineRepository{db: db}
}

// Ensure inserts the discipline if missing; duplicates are idempotent no-ops.
func (r *disciplineRepository) Ensure(ctx context.Context, name string) (models.Discipline, error) {
	discipline := models.Discipline{Name: name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&discipline).Error; err != nil {
		return models.Discipline{}, err
	}

	var stored models.Discipline
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&stored).Error; err != nil {
		return models.Discipline{}, err
	}
	return stored, nil
}

func (r *disciplineRepository) GetByID(ctx context.Context, id uint) (models.Discipline, error) {
	var discipline models.Discipline
	if err := r.db.WithContext(ctx).First(&discipline, id).Error; err != nil {
		return models.Discipline{}, err
	}
	return discipline, nil
}

func (r *disciplineRepository) List(ctx context.Context) ([]models.Discipline, error) {
	var disciplines []models.Discipline
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&disciplines).Error; err != nil {
		return nil, err
	}
	return disciplines, nil
}
