package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

func setupLessonEnv(t *testing.T) (LessonService, GridService, journalFixture) {
	t.Helper()
	db := setupServiceDB(t)
	fixture := seedJournalFixture(t, db)

	assignments := repository.NewAssignmentRepository(db)
	journal := repository.NewJournalRepository(db)
	grids := NewGridService(assignments, journal, nil, 0, testLogger())
	lessons := NewLessonService(assignments, journal, grids, testValidator(), testLogger())
	return lessons, grids, fixture
}

func TestLessonServiceCreateAddsColumn(t *testing.T) {
	lessons, grids, fixture := setupLessonEnv(t)
	ctx := context.Background()
	viewer := teacherViewer(fixture)

	created, err := lessons.Create(ctx, fixture.assignment.ID, viewer, dto.CreateLessonRequest{
		Date:  "2024-09-15",
		Topic: "Dynamics",
	})
	require.NoError(t, err)
	require.Equal(t, "2024-09-15", created.Date)

	response, err := grids.BuildGrid(ctx, fixture.assignment.ID, viewer)
	require.NoError(t, err)
	require.Len(t, response.Lessons, 3)
	require.Equal(t, "Dynamics", response.Topics[2])
}

func TestLessonServiceRejectsDuplicateDate(t *testing.T) {
	lessons, grids, fixture := setupLessonEnv(t)
	ctx := context.Background()
	viewer := teacherViewer(fixture)

	_, err := lessons.Create(ctx, fixture.assignment.ID, viewer, dto.CreateLessonRequest{Date: "2024-09-01"})
	require.ErrorIs(t, err, ErrDuplicateLesson)

	response, err := grids.BuildGrid(ctx, fixture.assignment.ID, viewer)
	require.NoError(t, err)
	require.Len(t, response.Lessons, 2, "rejected insert must not mutate the journal")
}

func TestLessonServiceValidatesDateFormat(t *testing.T) {
	lessons, _, fixture := setupLessonEnv(t)

	_, err := lessons.Create(context.Background(), fixture.assignment.ID, teacherViewer(fixture), dto.CreateLessonRequest{Date: "01.09.2024"})
	require.Error(t, err)
}

func TestLessonServiceForbidsStudents(t *testing.T) {
	lessons, _, fixture := setupLessonEnv(t)

	student := fixture.students[0]
	viewer := Viewer{ID: student.ID, Role: models.RoleStudent, GroupID: student.GroupID}
	_, err := lessons.Create(context.Background(), fixture.assignment.ID, viewer, dto.CreateLessonRequest{Date: "2024-10-01"})
	require.ErrorIs(t, err, ErrJournalForbidden)
}
