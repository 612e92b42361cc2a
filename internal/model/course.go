package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a taught subject inside a major. TeacherID points at the
// lecturer responsible for it; lectures hang off the course by id.
type Course struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MajorID        primitive.ObjectID `json:"major_id" bson:"major_id"`
	TeacherID      primitive.ObjectID `json:"teacher_id" bson:"teacher_id"`
	Title          string             `json:"title" bson:"title"`
	Icon           string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Tags           []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Topics         []string           `json:"topics,omitempty" bson:"topics,omitempty"`
	Views          int64              `json:"views" bson:"views"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at" bson:"last_accessed_at"`
}

// CourseDetail is the composed detail-page document: the course plus
// the embedded teacher reference. This is the shape held in the cache.
type CourseDetail struct {
	Course  *Course    `json:"course"`
	Teacher TeacherRef `json:"teacher"`
}

type CreateCourseRequest struct {
	MajorID     string   `json:"major_id" binding:"required,objectid"`
	TeacherID   string   `json:"teacher_id" binding:"required,objectid"`
	Title       string   `json:"title" binding:"required,min=2,max=128"`
	Icon        string   `json:"icon" binding:"omitempty,url"`
	Tags        []string `json:"tags" binding:"omitempty,max=16,dive,min=1,max=32"`
	Description string   `json:"description" binding:"omitempty,max=8000"`
	Topics      []string `json:"topics" binding:"omitempty,max=64,dive,min=1,max=256"`
}

type UpdateCourseRequest struct {
	MajorID     *string   `json:"major_id" binding:"omitempty,objectid"`
	TeacherID   *string   `json:"teacher_id" binding:"omitempty,objectid"`
	Title       *string   `json:"title" binding:"omitempty,min=2,max=128"`
	Icon        *string   `json:"icon" binding:"omitempty,url"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=16,dive,min=1,max=32"`
	Description *string   `json:"description" binding:"omitempty,max=8000"`
	Topics      *[]string `json:"topics" binding:"omitempty,max=64,dive,min=1,max=256"`
}
