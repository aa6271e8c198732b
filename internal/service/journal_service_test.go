package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

type fakeAssignmentRepo struct {
	lastScope repository.AssignmentScope
	result    []models.Assignment
}

func (f *fakeAssignmentRepo) Ensure(ctx context.Context, assignment *models.Assignment) (models.Assignment, error) {
	return *assignment, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	return models.Assignment{ID: id}, nil
}

func (f *fakeAssignmentRepo) ListScoped(ctx context.Context, scope repository.AssignmentScope) ([]models.Assignment, error) {
	f.lastScope = scope
	return f.result, nil
}

func TestJournalServiceAdminSeesEverything(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	_, err := svc.ListJournals(context.Background(), Viewer{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Nil(t, repo.lastScope.TeacherID)
	require.Nil(t, repo.lastScope.GroupID)
}

func TestJournalServiceTeacherScopedToOwnJournals(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	_, err := svc.ListJournals(context.Background(), Viewer{ID: 42, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.NotNil(t, repo.lastScope.TeacherID)
	require.Equal(t, uint(42), *repo.lastScope.TeacherID)
	require.Nil(t, repo.lastScope.GroupID)
}

func TestJournalServiceStudentScopedToGroup(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	groupID := uint(7)
	_, err := svc.ListJournals(context.Background(), Viewer{ID: 9, Role: models.RoleStudent, GroupID: &groupID})
	require.NoError(t, err)
	require.NotNil(t, repo.lastScope.GroupID)
	require.Equal(t, groupID, *repo.lastScope.GroupID)
}

func TestJournalServiceStudentWithoutGroupSeesNothing(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	journals, err := svc.ListJournals(context.Background(), Viewer{ID: 9, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Empty(t, journals)
	require.NotNil(t, repo.lastScope.GroupID)
	require.Equal(t, uint(0), *repo.lastScope.GroupID)
}

func TestJournalServiceRejectsUnknownRole(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	_, err := svc.ListJournals(context.Background(), Viewer{ID: 3, Role: "auditor"})
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestJournalServiceEmptyListIsNotAnError(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewJournalService(repo, testLogger())

	journals, err := svc.ListJournals(context.Background(), Viewer{ID: 5, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Empty(t, journals)
}
