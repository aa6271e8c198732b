package grid

import "errors"

// ErrShapeMismatch indicates the edited grid does not cover the same rows and
// columns as the baseline. The editing surface never adds or removes rows, so
// this is a defect, not a data case, and is never coerced.
var ErrShapeMismatch = errors.New("edited grid shape does not match baseline")

// GradeUpsert creates or replaces one grade value.
type GradeUpsert struct {
	LessonID  uint
	StudentID uint
	Value     string
}

// GradeDelete removes one grade row entirely.
type GradeDelete struct {
	LessonID  uint
	StudentID uint
}

// LessonFieldUpdate rewrites a lesson's topic or homework text.
type LessonFieldUpdate struct {
	LessonID uint
	Value    string
}

// MutationSet is the minimal ordered collection of storage operations that
// turns the baseline grid into the edited one. It is applied atomically.
type MutationSet struct {
	GradeUpserts    []GradeUpsert
	GradeDeletes    []GradeDelete
	TopicUpdates    []LessonFieldUpdate
	HomeworkUpdates []LessonFieldUpdate
}

// Len returns the total number of mutations in the set.
func (m MutationSet) Len() int {
	return len(m.GradeUpserts) + len(m.GradeDeletes) + len(m.TopicUpdates) + len(m.HomeworkUpdates)
}

// IsEmpty reports whether the set contains no mutations.
func (m MutationSet) IsEmpty() bool {
	return m.Len() == 0
}

// Diff compares an edited grid against its baseline and emits the minimal
// MutationSet. Cells equal after normalization produce nothing; an edited
// cell that became empty produces a delete, any other change an upsert.
// Diff(g, g) is always empty.
func Diff(baseline, edited *Grid) (MutationSet, error) {
	var set MutationSet

	if !baseline.SameShape(edited) {
		return set, ErrShapeMismatch
	}

	for _, student := range baseline.Students {
		for _, lesson := range baseline.Lessons {
			before := baseline.Grade(student.ID, lesson.ID)
			after := edited.Grade(student.ID, lesson.ID)
			if before == after {
				continue
			}
			if after.IsEmpty() {
				set.GradeDeletes = append(set.GradeDeletes, GradeDelete{LessonID: lesson.ID, StudentID: student.ID})
				continue
			}
			set.GradeUpserts = append(set.GradeUpserts, GradeUpsert{LessonID: lesson.ID, StudentID: student.ID, Value: after.String()})
		}
	}

	for _, lesson := range baseline.Lessons {
		if before, after := baseline.Topic(lesson.ID), edited.Topic(lesson.ID); before != after {
			set.TopicUpdates = append(set.TopicUpdates, LessonFieldUpdate{LessonID: lesson.ID, Value: after.String()})
		}
		if before, after := baseline.Homework(lesson.ID), edited.Homework(lesson.ID); before != after {
			set.HomeworkUpdates = append(set.HomeworkUpdates, LessonFieldUpdate{LessonID: lesson.ID, Value: after.String()})
		}
	}

	return set, nil
}
