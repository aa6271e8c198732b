package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/journal-go-api/internal/grid"
	"github.com/noah-isme/journal-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Discipline{},
		&models.Assignment{}, &models.Lesson{}, &models.Grade{},
	))
	return db
}

func TestUserRepositoryRejectsDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := models.User{Username: "npetrov", PasswordHash: "x", FullName: "Nikolai Petrov", Role: models.RoleTeacher}
	require.NoError(t, repo.Create(ctx, &first))

	second := models.User{Username: "npetrov", PasswordHash: "y", FullName: "Other Petrov", Role: models.RoleTeacher}
	err := repo.Create(ctx, &second)
	require.ErrorIs(t, err, ErrDuplicate)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGroupAndDisciplineEnsureAreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	groups := NewGroupRepository(db)
	disciplines := NewDisciplineRepository(db)
	ctx := context.Background()

	created, err := groups.Ensure(ctx, "CS-101")
	require.NoError(t, err)
	again, err := groups.Ensure(ctx, "CS-101")
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	algebra, err := disciplines.Ensure(ctx, "Algebra")
	require.NoError(t, err)
	dup, err := disciplines.Ensure(ctx, "Algebra")
	require.NoError(t, err)
	require.Equal(t, algebra.ID, dup.ID)
}

func TestAssignmentRepositoryScopedListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	teacherA := models.User{Username: "ta", PasswordHash: "x", FullName: "Alice Teacher", Role: models.RoleTeacher}
	teacherB := models.User{Username: "tb", PasswordHash: "x", FullName: "Bob Teacher", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacherA).Error)
	require.NoError(t, db.Create(&teacherB).Error)

	groupOne := models.Group{Name: "G-1"}
	groupTwo := models.Group{Name: "G-2"}
	require.NoError(t, db.Create(&groupOne).Error)
	require.NoError(t, db.Create(&groupTwo).Error)

	algebra := models.Discipline{Name: "Algebra"}
	zoology := models.Discipline{Name: "Zoology"}
	require.NoError(t, db.Create(&algebra).Error)
	require.NoError(t, db.Create(&zoology).Error)

	first, err := repo.Ensure(ctx, &models.Assignment{GroupID: groupOne.ID, DisciplineID: zoology.ID, TeacherID: teacherA.ID})
	require.NoError(t, err)
	_, err = repo.Ensure(ctx, &models.Assignment{GroupID: groupTwo.ID, DisciplineID: algebra.ID, TeacherID: teacherB.ID})
	require.NoError(t, err)

	// re-binding the same (group, discipline) pair is a no-op
	rebound, err := repo.Ensure(ctx, &models.Assignment{GroupID: groupOne.ID, DisciplineID: zoology.ID, TeacherID: teacherB.ID})
	require.NoError(t, err)
	require.Equal(t, first.ID, rebound.ID)
	require.Equal(t, teacherA.ID, rebound.TeacherID)

	all, err := repo.ListScoped(ctx, AssignmentScope{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Algebra", all[0].Discipline.Name, "ordered by discipline name first")
	require.Equal(t, "Zoology", all[1].Discipline.Name)

	mine, err := repo.ListScoped(ctx, AssignmentScope{TeacherID: &teacherA.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, first.ID, mine[0].ID)

	forGroup, err := repo.ListScoped(ctx, AssignmentScope{GroupID: &groupTwo.ID})
	require.NoError(t, err)
	require.Len(t, forGroup, 1)
	require.Equal(t, groupTwo.ID, forGroup[0].GroupID)
}

func seedJournal(t *testing.T, db *gorm.DB) (models.Assignment, models.User, []models.Lesson) {
	t.Helper()

	teacher := models.User{Username: "teach", PasswordHash: "x", FullName: "Teacher", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	group := models.Group{Name: "CS-201"}
	require.NoError(t, db.Create(&group).Error)
	discipline := models.Discipline{Name: "Calculus"}
	require.NoError(t, db.Create(&discipline).Error)

	student := models.User{Username: "stud", PasswordHash: "x", FullName: "Student One", Role: models.RoleStudent, GroupID: &group.ID}
	require.NoError(t, db.Create(&student).Error)

	assignment := models.Assignment{GroupID: group.ID, DisciplineID: discipline.ID, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	lessons := []models.Lesson{
		{AssignmentID: assignment.ID, Date: "2024-09-01", Topic: "Limits"},
		{AssignmentID: assignment.ID, Date: "2024-09-08"},
	}
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return assignment, student, lessons
}

func TestJournalRepositoryRejectsDuplicateLessonDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	assignment, _, _ := seedJournal(t, db)

	dup := models.Lesson{AssignmentID: assignment.ID, Date: "2024-09-01", Topic: "Limits again"}
	err := repo.CreateLesson(ctx, &dup)
	require.ErrorIs(t, err, ErrDuplicate)

	lessons, err := repo.Lessons(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2, "failed insert must not disturb existing lessons")
	require.Equal(t, "Limits", lessons[0].Topic)
}

func TestJournalRepositoryLessonsOrderedByDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	assignment, _, _ := seedJournal(t, db)
	require.NoError(t, repo.CreateLesson(ctx, &models.Lesson{AssignmentID: assignment.ID, Date: "2024-08-25"}))

	lessons, err := repo.Lessons(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	require.Equal(t, "2024-08-25", lessons[0].Date)
	require.Equal(t, "2024-09-08", lessons[2].Date)
}

func TestJournalRepositoryApplyMutations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	assignment, student, lessons := seedJournal(t, db)
	require.NoError(t, db.Create(&models.Grade{LessonID: lessons[0].ID, StudentID: student.ID, Value: "3"}).Error)

	set := grid.MutationSet{
		GradeUpserts: []grid.GradeUpsert{
			{LessonID: lessons[0].ID, StudentID: student.ID, Value: "5"},
			{LessonID: lessons[1].ID, StudentID: student.ID, Value: "4"},
		},
		TopicUpdates:    []grid.LessonFieldUpdate{{LessonID: lessons[1].ID, Value: "Derivatives"}},
		HomeworkUpdates: []grid.LessonFieldUpdate{{LessonID: lessons[0].ID, Value: "Problems 1-5"}},
	}

	applied, err := repo.ApplyMutations(ctx, set)
	require.NoError(t, err)
	require.Equal(t, 4, applied)

	grades, err := repo.Grades(ctx, []uint{lessons[0].ID, lessons[1].ID})
	require.NoError(t, err)
	require.Len(t, grades, 2)

	byLesson := map[uint]string{}
	for _, g := range grades {
		byLesson[g.LessonID] = g.Value
	}
	require.Equal(t, "5", byLesson[lessons[0].ID], "existing grade replaced in place")
	require.Equal(t, "4", byLesson[lessons[1].ID])

	stored, err := repo.Lessons(ctx, assignment.ID)
	require.NoError(t, err)
	require.Equal(t, "Problems 1-5", stored[0].Homework)
	require.Equal(t, "Derivatives", stored[1].Topic)

	// clearing a cell removes the row instead of blanking it
	applied, err = repo.ApplyMutations(ctx, grid.MutationSet{
		GradeDeletes: []grid.GradeDelete{{LessonID: lessons[0].ID, StudentID: student.ID}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	grades, err = repo.Grades(ctx, []uint{lessons[0].ID})
	require.NoError(t, err)
	require.Empty(t, grades)
}

func TestJournalRepositoryTransactionRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	_, student, lessons := seedJournal(t, db)

	boom := errors.New("boom")
	err := repo.InTransaction(ctx, func(tx JournalRepository) error {
		if _, err := tx.ApplyMutations(ctx, grid.MutationSet{
			GradeUpserts: []grid.GradeUpsert{{LessonID: lessons[0].ID, StudentID: student.ID, Value: "5"}},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	grades, err := repo.Grades(ctx, []uint{lessons[0].ID})
	require.NoError(t, err)
	require.Empty(t, grades, "rolled back mutation must not be visible")
}

func TestInTransactionTranslatesSerializationAborts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	abort := &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
	err := repo.InTransaction(ctx, func(tx JournalRepository) error {
		return fmt.Errorf("apply failed: %w", abort)
	})
	require.ErrorIs(t, err, ErrSerialization)

	deadlock := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	err = repo.InTransaction(ctx, func(tx JournalRepository) error {
		return deadlock
	})
	require.ErrorIs(t, err, ErrSerialization)

	boom := errors.New("boom")
	err = repo.InTransaction(ctx, func(tx JournalRepository) error {
		return boom
	})
	require.ErrorIs(t, err, boom, "unrelated errors must pass through untranslated")
}
