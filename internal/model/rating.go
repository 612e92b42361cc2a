package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grade is an ECTS mark. Fx means failed with a retake allowed, F
// means failed outright, which is why Fx scores above F.
type Grade string

const (
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeE  Grade = "E"
	GradeFx Grade = "Fx"
	GradeF  Grade = "F"
)

var gradePoints = map[Grade]float64{
	GradeA:  5,
	GradeB:  4.5,
	GradeC:  4,
	GradeD:  3.5,
	GradeE:  3,
	GradeFx: 2,
	GradeF:  1,
}

func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// Points converts the grade to its numeric weight on the 1..5 scale.
func (g Grade) Points() float64 {
	return gradePoints[g]
}

// Grades lists all grades in descending order of weight.
func Grades() []Grade {
	return []Grade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeFx, GradeF}
}

// SubjectType names what a rating or activity event is attached to.
type SubjectType string

const (
	SubjectCourse  SubjectType = "course"
	SubjectTeacher SubjectType = "teacher"
)

func (s SubjectType) Valid() bool {
	return s == SubjectCourse || s == SubjectTeacher
}

// Rating is one user's current grade for a subject. The collection
// keeps at most one document per (subject_type, subject_id, user_id);
// re-rating overwrites the previous grade.
type Rating struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubjectType SubjectType        `json:"subject_type" bson:"subject_type"`
	SubjectID   primitive.ObjectID `json:"subject_id" bson:"subject_id"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id"`
	Grade       Grade              `json:"grade" bson:"grade"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// RatingSummary is the aggregate shown on detail pages. Average is the
// point-weighted mean over all counted grades, zero when Total is zero.
type RatingSummary struct {
	SubjectType SubjectType     `json:"subject_type"`
	SubjectID   string          `json:"subject_id"`
	Counts      map[Grade]int64 `json:"counts"`
	Total       int64           `json:"total"`
	Average     float64         `json:"average"`
}

// NewRatingSummary fills Total and Average from the per-grade counts.
func NewRatingSummary(subjectType SubjectType, subjectID string, counts map[Grade]int64) *RatingSummary {
	summary := &RatingSummary{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Counts:      make(map[Grade]int64, len(Grades())),
	}
	var weighted float64
	for _, g := range Grades() {
		n := counts[g]
		summary.Counts[g] = n
		summary.Total += n
		weighted += g.Points() * float64(n)
	}
	if summary.Total > 0 {
		summary.Average = weighted / float64(summary.Total)
	}
	return summary
}

type RateRequest struct {
	Grade Grade `json:"grade" binding:"required,oneof=A B C D E Fx F"`
}
