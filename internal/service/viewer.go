package service

import "github.com/noah-isme/journal-go-api/internal/models"

// Viewer is the immutable request context of the acting user. It is passed
// explicitly into every scoped operation; there is no ambient session state.
type Viewer struct {
	ID      uint
	Role    models.Role
	GroupID *uint
}

// canViewJournal decides read access: admins see everything, teachers their
// own assignments, students the journals of their group.
func canViewJournal(viewer Viewer, assignment models.Assignment) bool {
	switch viewer.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return assignment.TeacherID == viewer.ID
	case models.RoleStudent:
		return viewer.GroupID != nil && *viewer.GroupID == assignment.GroupID
	default:
		return false
	}
}

// canEditJournal decides write access to grids and lessons.
func canEditJournal(viewer Viewer, assignment models.Assignment) bool {
	switch viewer.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return assignment.TeacherID == viewer.ID
	default:
		return false
	}
}
