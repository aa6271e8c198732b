package dto

import "github.com/noah-isme/journal-go-api/internal/models"

// CreateUserRequest carries the admin payload for creating an account.
// GroupID is required for students and must be absent otherwise.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Role     string `json:"role" validate:"required,oneof=admin teacher student"`
	GroupID  *uint  `json:"group_id"`
}

// CreateGroupRequest carries the payload for creating a study group.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// CreateDisciplineRequest carries the payload for creating a discipline.
type CreateDisciplineRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// CreateAssignmentRequest binds a group, a discipline and a teacher.
type CreateAssignmentRequest struct {
	GroupID      uint `json:"group_id" validate:"required"`
	DisciplineID uint `json:"discipline_id" validate:"required"`
	TeacherID    uint `json:"teacher_id" validate:"required"`
}

// GroupResponse is the serialized group representation.
type GroupResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewGroupResponse converts a model into a DTO.
func NewGroupResponse(model models.Group) GroupResponse {
	return GroupResponse{ID: model.ID, Name: model.Name}
}

// NewGroupResponseSlice converts a slice of models into DTOs.
func NewGroupResponseSlice(groups []models.Group) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group))
	}
	return responses
}

// DisciplineResponse is the serialized discipline representation.
type DisciplineResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewDisciplineResponse converts a model into a DTO.
func NewDisciplineResponse(model models.Discipline) DisciplineResponse {
	return DisciplineResponse{ID: model.ID, Name: model.Name}
}

// NewDisciplineResponseSlice converts a slice of models into DTOs.
func NewDisciplineResponseSlice(disciplines []models.Discipline) []DisciplineResponse {
	responses := make([]DisciplineResponse, 0, len(disciplines))
	for _, discipline := range disciplines {
		responses = append(responses, NewDisciplineResponse(discipline))
	}
	return responses
}
