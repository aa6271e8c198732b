package models

import "time"

// Assignment binds a group, a discipline and the teacher responsible for it.
// One journal is kept per assignment. A (group, discipline) pair can only be
// assigned once.
type Assignment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	GroupID      uint       `gorm:"not null;uniqueIndex:idx_assignments_group_discipline" json:"group_id"`
	DisciplineID uint       `gorm:"not null;uniqueIndex:idx_assignments_group_discipline" json:"discipline_id"`
	TeacherID    uint       `gorm:"not null;index" json:"teacher_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Group        Group      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"group"`
	Discipline   Discipline `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"discipline"`
	Teacher      User       `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}
