package grid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// StudentRow identifies one data row of the grid.
type StudentRow struct {
	ID       uint
	FullName string
}

// LessonColumn identifies one column of the grid.
type LessonColumn struct {
	ID   uint
	Date string
}

type cellKey struct {
	studentID uint
	lessonID  uint
}

// Grid is the derived tabular view of one journal: students by lesson dates,
// plus per-lesson topic and homework metadata. Student rows and metadata rows
// are kept apart; metadata is never smuggled in as extra data rows. A Grid is
// recomputed from storage on every read and never persisted itself.
type Grid struct {
	AssignmentID uint
	Students     []StudentRow
	Lessons      []LessonColumn

	grades   map[cellKey]Cell
	topics   map[uint]Cell
	homework map[uint]Cell
}

// New builds an empty grid with the given fixed shape. Cell values are
// populated afterwards through the setters.
func New(assignmentID uint, students []StudentRow, lessons []LessonColumn) *Grid {
	return &Grid{
		AssignmentID: assignmentID,
		Students:     students,
		Lessons:      lessons,
		grades:       make(map[cellKey]Cell, len(students)*len(lessons)),
		topics:       make(map[uint]Cell, len(lessons)),
		homework:     make(map[uint]Cell, len(lessons)),
	}
}

// SetGrade records a grade cell; the raw value is normalized on entry.
func (g *Grid) SetGrade(studentID, lessonID uint, raw string) {
	g.grades[cellKey{studentID: studentID, lessonID: lessonID}] = NewCell(raw)
}

// SetTopic records a lesson topic; the raw value is normalized on entry.
func (g *Grid) SetTopic(lessonID uint, raw string) {
	g.topics[lessonID] = NewCell(raw)
}

// SetHomework records a lesson homework text; normalized on entry.
func (g *Grid) SetHomework(lessonID uint, raw string) {
	g.homework[lessonID] = NewCell(raw)
}

// Grade returns the cell for (student, lesson); missing cells are empty.
func (g *Grid) Grade(studentID, lessonID uint) Cell {
	return g.grades[cellKey{studentID: studentID, lessonID: lessonID}]
}

// Topic returns the topic cell for a lesson.
func (g *Grid) Topic(lessonID uint) Cell {
	return g.topics[lessonID]
}

// Homework returns the homework cell for a lesson.
func (g *Grid) Homework(lessonID uint) Cell {
	return g.homework[lessonID]
}

// SameShape reports whether both grids cover the same ordered student rows
// and lesson columns. Editing never changes shape, so a mismatch signals a
// programming error on the caller's side.
func (g *Grid) SameShape(other *Grid) bool {
	if other == nil {
		return false
	}
	if g.AssignmentID != other.AssignmentID {
		return false
	}
	if len(g.Students) != len(other.Students) || len(g.Lessons) != len(other.Lessons) {
		return false
	}
	for i, student := range g.Students {
		if other.Students[i].ID != student.ID {
			return false
		}
	}
	for i, lesson := range g.Lessons {
		if other.Lessons[i].ID != lesson.ID {
			return false
		}
	}
	return true
}

// Revision returns a deterministic fingerprint of the grid's shape and
// normalized contents. A client submits the revision it edited against; a
// changed revision means another actor saved in between.
func (g *Grid) Revision() string {
	h := sha256.New()
	writeRevision(h, g)
	return hex.EncodeToString(h.Sum(nil))
}

func writeRevision(w io.Writer, g *Grid) {
	fmt.Fprintf(w, "assignment:%d\n", g.AssignmentID)
	for _, student := range g.Students {
		fmt.Fprintf(w, "student:%d\n", student.ID)
	}
	for _, lesson := range g.Lessons {
		fmt.Fprintf(w, "lesson:%d:", lesson.ID)
		writeRevisionField(w, lesson.Date)
	}
	for _, student := range g.Students {
		for _, lesson := range g.Lessons {
			fmt.Fprintf(w, "grade:%d:%d:", lesson.ID, student.ID)
			writeRevisionField(w, g.Grade(student.ID, lesson.ID).String())
		}
	}
	for _, lesson := range g.Lessons {
		fmt.Fprintf(w, "topic:%d:", lesson.ID)
		writeRevisionField(w, g.Topic(lesson.ID).String())
		fmt.Fprintf(w, "homework:%d:", lesson.ID)
		writeRevisionField(w, g.Homework(lesson.ID).String())
	}
}

// writeRevisionField length-prefixes free-form values so a value embedding a
// newline or a forged record header cannot produce the same byte stream as a
// different grid.
func writeRevisionField(w io.Writer, value string) {
	fmt.Fprintf(w, "%d:%s\n", len(value), value)
}

// Equal reports whether both grids have the same shape and, after
// normalization, the same cell, topic and homework values.
func (g *Grid) Equal(other *Grid) bool {
	if !g.SameShape(other) {
		return false
	}
	for _, student := range g.Students {
		for _, lesson := range g.Lessons {
			if g.Grade(student.ID, lesson.ID) != other.Grade(student.ID, lesson.ID) {
				return false
			}
		}
	}
	for _, lesson := range g.Lessons {
		if g.Topic(lesson.ID) != other.Topic(lesson.ID) {
			return false
		}
		if g.Homework(lesson.ID) != other.Homework(lesson.ID) {
			return false
		}
	}
	return true
}
