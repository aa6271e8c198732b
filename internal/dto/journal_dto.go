package dto

import "github.com/noah-isme/journal-go-api/internal/models"

// JournalResponse is one entry of the scoped journal list: an assignment with
// its display fields joined in.
type JournalResponse struct {
	ID             uint   `json:"id"`
	GroupID        uint   `json:"group_id"`
	GroupName      string `json:"group_name"`
	DisciplineName string `json:"discipline_name"`
	TeacherName    string `json:"teacher_name"`
}

// NewJournalResponse converts an assignment with preloaded relations.
func NewJournalResponse(model models.Assignment) JournalResponse {
	return JournalResponse{
		ID:             model.ID,
		GroupID:        model.GroupID,
		GroupName:      model.Group.Name,
		DisciplineName: model.Discipline.Name,
		TeacherName:    model.Teacher.FullName,
	}
}

// NewJournalResponseSlice converts a slice of assignments into DTOs.
func NewJournalResponseSlice(assignments []models.Assignment) []JournalResponse {
	responses := make([]JournalResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewJournalResponse(assignment))
	}
	return responses
}

// CreateLessonRequest carries the payload for adding a lesson to a journal.
type CreateLessonRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Topic    string `json:"topic" validate:"max=2000"`
	Homework string `json:"homework" validate:"max=2000"`
}

// LessonResponse is the serialized lesson representation.
type LessonResponse struct {
	ID       uint   `json:"id"`
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Homework string `json:"homework"`
}

// NewLessonResponse converts a model into a DTO.
func NewLessonResponse(model models.Lesson) LessonResponse {
	return LessonResponse{
		ID:       model.ID,
		Date:     model.Date,
		Topic:    model.Topic,
		Homework: model.Homework,
	}
}
