package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/journal-go-api/internal/dto"
	"github.com/noah-isme/journal-go-api/internal/models"
	"github.com/noah-isme/journal-go-api/internal/repository"
)

var (
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrStudentGroupRequired indicates a student account without a group.
	ErrStudentGroupRequired = errors.New("student accounts require a group")
	// ErrGroupNotFound indicates a referenced group does not exist.
	ErrGroupNotFound = errors.New("group not found")
	// ErrDisciplineNotFound indicates a referenced discipline does not exist.
	ErrDisciplineNotFound = errors.New("discipline not found")
	// ErrTeacherRoleRequired indicates the referenced user cannot teach.
	ErrTeacherRoleRequired = errors.New("assigned user must have the teacher role")
)

// AdminService covers the administrator entity management surface: accounts,
// groups, disciplines and journal assignments.
type AdminService interface {
	CreateUser(ctx context.Context, payload dto.CreateUserRequest) (dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	CreateGroup(ctx context.Context, payload dto.CreateGroupRequest) (dto.GroupResponse, error)
	ListGroups(ctx context.Context) ([]dto.GroupResponse, error)
	CreateDiscipline(ctx context.Context, payload dto.CreateDisciplineRequest) (dto.DisciplineResponse, error)
	ListDisciplines(ctx context.Context) ([]dto.DisciplineResponse, error)
	CreateAssignment(ctx context.Context, payload dto.CreateAssignmentRequest) (dto.JournalResponse, error)
	ListAssignments(ctx context.Context) ([]dto.JournalResponse, error)
}

type adminService struct {
	users       repository.UserRepository
	groups      repository.GroupRepository
	disciplines repository.DisciplineRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(users repository.UserRepository, groups repository.GroupRepository, disciplines repository.DisciplineRepository, assignments repository.AssignmentRepository, validator *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		users:       users,
		groups:      groups,
		disciplines: disciplines,
		assignments: assignments,
		validator:   validator,
		logger:      logger.With().Str("component", "admin_service").Logger(),
	}
}

// CreateUser registers an account. Unlike the other admin inserts this one is
// strict: a duplicate username is an error, never silently merged.
func (s *adminService) CreateUser(ctx context.Context, payload dto.CreateUserRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username: payload.Username,
		FullName: payload.FullName,
		Role:     models.Role(payload.Role),
		GroupID:  payload.GroupID,
	}
	if user.IsStudent() {
		if user.GroupID == nil {
			return dto.UserResponse{}, ErrStudentGroupRequired
		}
		if _, err := s.groups.GetByID(ctx, *user.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserResponse{}, ErrGroupNotFound
			}
			return dto.UserResponse{}, err
		}
	} else {
		// a group reference is only meaningful for students
		user.GroupID = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.UserResponse{}, ErrDuplicateUsername
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", payload.Role).Msg("user created")
	return dto.NewUserResponse(user), nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *adminService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	teachers, err := s.users.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(teachers), nil
}

func (s *adminService) CreateGroup(ctx context.Context, payload dto.CreateGroupRequest) (dto.GroupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GroupResponse{}, err
	}
	group, err := s.groups.Ensure(ctx, payload.Name)
	if err != nil {
		return dto.GroupResponse{}, err
	}
	return dto.NewGroupResponse(group), nil
}

func (s *adminService) ListGroups(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewGroupResponseSlice(groups), nil
}

func (s *adminService) CreateDiscipline(ctx context.Context, payload dto.CreateDisciplineRequest) (dto.DisciplineResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DisciplineResponse{}, err
	}
	discipline, err := s.disciplines.Ensure(ctx, payload.Name)
	if err != nil {
		return dto.DisciplineResponse{}, err
	}
	return dto.NewDisciplineResponse(discipline), nil
}

func (s *adminService) ListDisciplines(ctx context.Context) ([]dto.DisciplineResponse, error) {
	disciplines, err := s.disciplines.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewDisciplineResponseSlice(disciplines), nil
}

// CreateAssignment binds a group, discipline and teacher. Binding the same
// (group, discipline) pair twice returns the existing journal unchanged.
func (s *adminService) CreateAssignment(ctx context.Context, payload dto.CreateAssignmentRequest) (dto.JournalResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JournalResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JournalResponse{}, ErrTeacherRoleRequired
		}
		return dto.JournalResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.JournalResponse{}, ErrTeacherRoleRequired
	}

	if _, err := s.groups.GetByID(ctx, payload.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JournalResponse{}, ErrGroupNotFound
		}
		return dto.JournalResponse{}, err
	}
	if _, err := s.disciplines.GetByID(ctx, payload.DisciplineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JournalResponse{}, ErrDisciplineNotFound
		}
		return dto.JournalResponse{}, err
	}

	assignment := models.Assignment{
		GroupID:      payload.GroupID,
		DisciplineID: payload.DisciplineID,
		TeacherID:    payload.TeacherID,
	}
	stored, err := s.assignments.Ensure(ctx, &assignment)
	if err != nil {
		return dto.JournalResponse{}, err
	}

	full, err := s.assignments.GetByID(ctx, stored.ID)
	if err != nil {
		return dto.JournalResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", full.ID).Msg("journal assignment ensured")
	return dto.NewJournalResponse(full), nil
}

func (s *adminService) ListAssignments(ctx context.Context) ([]dto.JournalResponse, error) {
	assignments, err := s.assignments.ListScoped(ctx, repository.AssignmentScope{})
	if err != nil {
		return nil, err
	}
	return dto.NewJournalResponseSlice(assignments), nil
}
