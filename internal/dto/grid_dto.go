package dto

import "github.com/noah-isme/journal-go-api/internal/grid"

// GridLessonColumn describes one column of the editable grid.
type GridLessonColumn struct {
	ID   uint   `json:"id"`
	Date string `json:"date"`
}

// GridRowResponse is one student row; Cells is aligned with the lesson
// columns, empty string for an ungraded cell.
type GridRowResponse struct {
	StudentID uint     `json:"student_id"`
	FullName  string   `json:"full_name"`
	Cells     []string `json:"cells"`
}

// GridResponse is the full editable grid for teachers and administrators.
// Topics and Homework are kept separate from the student rows; both are
// aligned with Lessons. Revision is the optimistic-concurrency fingerprint
// the client must echo back when saving.
type GridResponse struct {
	AssignmentID uint               `json:"assignment_id"`
	Revision     string             `json:"revision"`
	Lessons      []GridLessonColumn `json:"lessons"`
	Rows         []GridRowResponse  `json:"rows"`
	Topics       []string           `json:"topics"`
	Homework     []string           `json:"homework"`
}

// NewGridResponse serializes a grid.
func NewGridResponse(g *grid.Grid) GridResponse {
	response := GridResponse{
		AssignmentID: g.AssignmentID,
		Revision:     g.Revision(),
		Lessons:      make([]GridLessonColumn, 0, len(g.Lessons)),
		Rows:         make([]GridRowResponse, 0, len(g.Students)),
		Topics:       make([]string, 0, len(g.Lessons)),
		Homework:     make([]string, 0, len(g.Lessons)),
	}

	for _, lesson := range g.Lessons {
		response.Lessons = append(response.Lessons, GridLessonColumn{ID: lesson.ID, Date: lesson.Date})
		response.Topics = append(response.Topics, g.Topic(lesson.ID).String())
		response.Homework = append(response.Homework, g.Homework(lesson.ID).String())
	}

	for _, student := range g.Students {
		row := GridRowResponse{StudentID: student.ID, FullName: student.FullName, Cells: make([]string, 0, len(g.Lessons))}
		for _, lesson := range g.Lessons {
			row.Cells = append(row.Cells, g.Grade(student.ID, lesson.ID).String())
		}
		response.Rows = append(response.Rows, row)
	}

	return response
}

// GridRowEdit is one edited student row; Cells must align with the Lessons
// order of the save request.
type GridRowEdit struct {
	StudentID uint     `json:"student_id" validate:"required"`
	Cells     []string `json:"cells" validate:"dive,max=16"`
}

// SaveGridRequest is the user-edited copy of the grid submitted for
// reconciliation. It must cover the exact shape of the baseline it was built
// from; Revision is the fingerprint of that baseline. Length caps mirror the
// column sizes so bad input fails validation instead of the insert.
type SaveGridRequest struct {
	Revision string        `json:"revision" validate:"required"`
	Lessons  []uint        `json:"lessons" validate:"required,min=1"`
	Rows     []GridRowEdit `json:"rows" validate:"dive"`
	Topics   []string      `json:"topics" validate:"dive,max=2000"`
	Homework []string      `json:"homework" validate:"dive,max=2000"`
}

// SaveGridResponse reports the outcome of a save.
type SaveGridResponse struct {
	Applied int `json:"applied"`
}

// StudentGradeEntry is one (date, grade) pair of the student projection;
// ungraded lessons carry the display sentinel.
type StudentGradeEntry struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// StudentLessonEntry is one (date, topic, homework) triple of the student
// projection.
type StudentLessonEntry struct {
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Homework string `json:"homework"`
}

// StudentViewResponse combines the two read-only projections a student sees:
// their own grades and the lesson plan. There is no trailer-row trick here,
// the projections are independent.
type StudentViewResponse struct {
	AssignmentID uint                 `json:"assignment_id"`
	Grades       []StudentGradeEntry  `json:"grades"`
	Lessons      []StudentLessonEntry `json:"lessons"`
}
