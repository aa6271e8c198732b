package models

import "time"

// LessonDateLayout is the canonical wire and storage format for lesson dates.
const LessonDateLayout = "2006-01-02"

// Lesson is a single class meeting within an assignment's journal. At most
// one lesson exists per assignment per calendar date.
type Lesson struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_lessons_assignment_date" json:"assignment_id"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:idx_lessons_assignment_date" json:"date"`
	Topic        string    `gorm:"type:text" json:"topic"`
	Homework     string    `gorm:"type:text" json:"homework"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
