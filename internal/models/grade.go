package models

import "time"

// Grade is a mark given to one student for one lesson. Absence of a row means
// "ungraded"; clearing a grade deletes the row rather than blanking it.
type Grade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LessonID  uint      `gorm:"not null;uniqueIndex:idx_grades_lesson_student" json:"lesson_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_grades_lesson_student" json:"student_id"`
	Value     string    `gorm:"size:16;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
