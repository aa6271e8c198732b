package service

import (
	"fmt"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/journal-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Discipline{},
		&models.Assignment{}, &models.Lesson{}, &models.Grade{},
	))
	return db
}

type journalFixture struct {
	teacher    models.User
	group      models.Group
	discipline models.Discipline
	assignment models.Assignment
	students   []models.User
	lessons    []models.Lesson
}

// seedJournalFixture creates one journal with two students and two lessons,
// one grade already present.
func seedJournalFixture(t *testing.T, db *gorm.DB) journalFixture {
	t.Helper()

	teacher := models.User{Username: "ivanova", PasswordHash: "x", FullName: "Elena Ivanova", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	group := models.Group{Name: "PH-21"}
	require.NoError(t, db.Create(&group).Error)

	discipline := models.Discipline{Name: "Physics"}
	require.NoError(t, db.Create(&discipline).Error)

	students := []models.User{
		{Username: "akim", PasswordHash: "x", FullName: "Akim Sorokin", Role: models.RoleStudent, GroupID: &group.ID},
		{Username: "vera", PasswordHash: "x", FullName: "Vera Malkova", Role: models.RoleStudent, GroupID: &group.ID},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
	}

	assignment := models.Assignment{GroupID: group.ID, DisciplineID: discipline.ID, TeacherID: teacher.ID}
	require.NoError(t, db.Create(&assignment).Error)

	lessons := []models.Lesson{
		{AssignmentID: assignment.ID, Date: "2024-09-01", Topic: "Kinematics", Homework: "Read chapter 2"},
		{AssignmentID: assignment.ID, Date: "2024-09-08"},
	}
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	require.NoError(t, db.Create(&models.Grade{
		LessonID:  lessons[0].ID,
		StudentID: students[0].ID,
		Value:     "4",
	}).Error)

	return journalFixture{
		teacher:    teacher,
		group:      group,
		discipline: discipline,
		assignment: assignment,
		students:   students,
		lessons:    lessons,
	}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
