package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

func setupAdminService(t *testing.T) (AdminService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewAdminService(
		repository.NewUserRepository(db),
		repository.NewGroupRepository(db),
		repository.NewDisciplineRepository(db),
		repository.NewAssignmentRepository(db),
		testValidator(),
		testLogger(),
	)
	return svc, db
}

func TestAdminServiceCreateUserHashesPassword(t *testing.T) {
	svc, db := setupAdminService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "director",
		Password: "sup3rsecret",
		FullName: "Olga Director",
		Role:     "admin",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, created.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.NotEqual(t, "sup3rsecret", stored.PasswordHash)
	require.NotEmpty(t, stored.PasswordHash)
}

func TestAdminServiceCreateUserDuplicateUsername(t *testing.T) {
	svc, _ := setupAdminService(t)
	ctx := context.Background()

	request := dto.CreateUserRequest{Username: "twin", Password: "password1", FullName: "First Twin", Role: "teacher"}
	_, err := svc.CreateUser(ctx, request)
	require.NoError(t, err)

	request.FullName = "Second Twin"
	_, err = svc.CreateUser(ctx, request)
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAdminServiceStudentRequiresGroup(t *testing.T) {
	svc, db := setupAdminService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "nogroup",
		Password: "password1",
		FullName: "No Group",
		Role:     "student",
	})
	require.ErrorIs(t, err, ErrStudentGroupRequired)

	missing := uint(404)
	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "badgroup",
		Password: "password1",
		FullName: "Bad Group",
		Role:     "student",
		GroupID:  &missing,
	})
	require.ErrorIs(t, err, ErrGroupNotFound)

	group := models.Group{Name: "OK-1"}
	require.NoError(t, db.Create(&group).Error)
	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "goodgroup",
		Password: "password1",
		FullName: "Good Group",
		Role:     "student",
		GroupID:  &group.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.GroupID)
	require.Equal(t, group.ID, *created.GroupID)
}

func TestAdminServiceGroupReferenceDroppedForTeachers(t *testing.T) {
	svc, db := setupAdminService(t)
	group := models.Group{Name: "IGNORED"}
	require.NoError(t, db.Create(&group).Error)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "grouplessteacher",
		Password: "password1",
		FullName: "Groupless Teacher",
		Role:     "teacher",
		GroupID:  &group.ID,
	})
	require.NoError(t, err)
	require.Nil(t, created.GroupID)
}

func TestAdminServiceCreateGroupAndDisciplineIdempotent(t *testing.T) {
	svc, _ := setupAdminService(t)
	ctx := context.Background()

	first, err := svc.CreateGroup(ctx, dto.CreateGroupRequest{Name: "CS-305"})
	require.NoError(t, err)
	second, err := svc.CreateGroup(ctx, dto.CreateGroupRequest{Name: "CS-305"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	d1, err := svc.CreateDiscipline(ctx, dto.CreateDisciplineRequest{Name: "History"})
	require.NoError(t, err)
	d2, err := svc.CreateDiscipline(ctx, dto.CreateDisciplineRequest{Name: "History"})
	require.NoError(t, err)
	require.Equal(t, d1.ID, d2.ID)
}

func TestAdminServiceCreateAssignmentValidatesTeacherRole(t *testing.T) {
	svc, db := setupAdminService(t)
	ctx := context.Background()

	group := models.Group{Name: "AS-1"}
	require.NoError(t, db.Create(&group).Error)
	discipline := models.Discipline{Name: "Biology"}
	require.NoError(t, db.Create(&discipline).Error)

	student := models.User{Username: "notateacher", PasswordHash: "x", FullName: "Not A Teacher", Role: models.RoleStudent, GroupID: &group.ID}
	require.NoError(t, db.Create(&student).Error)

	_, err := svc.CreateAssignment(ctx, dto.CreateAssignmentRequest{
		GroupID:      group.ID,
		DisciplineID: discipline.ID,
		TeacherID:    student.ID,
	})
	require.ErrorIs(t, err, ErrTeacherRoleRequired)

	teacher := models.User{Username: "realteacher", PasswordHash: "x", FullName: "Real Teacher", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	created, err := svc.CreateAssignment(ctx, dto.CreateAssignmentRequest{
		GroupID:      group.ID,
		DisciplineID: discipline.ID,
		TeacherID:    teacher.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Biology", created.DisciplineName)
	require.Equal(t, "Real Teacher", created.TeacherName)

	// binding the same pair again is a no-op returning the same journal
	again, err := svc.CreateAssignment(ctx, dto.CreateAssignmentRequest{
		GroupID:      group.ID,
		DisciplineID: discipline.ID,
		TeacherID:    teacher.ID,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)
}
