package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lecture is one session of a course. Number orders lectures within a
// course and is unique per course.
type Lecture struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourseID  primitive.ObjectID `json:"course_id" bson:"course_id"`
	Number    int                `json:"number" bson:"number"`
	Title     string             `json:"title" bson:"title"`
	Abstract  string             `json:"abstract,omitempty" bson:"abstract,omitempty"`
	Room      string             `json:"room,omitempty" bson:"room,omitempty"`
	StartsAt  *time.Time         `json:"starts_at,omitempty" bson:"starts_at,omitempty"`
	EndsAt    *time.Time         `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
	Materials []LectureMaterial  `json:"materials,omitempty" bson:"materials,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type LectureMaterial struct {
	Title string `json:"title" bson:"title" binding:"required,min=1,max=256"`
	URL   string `json:"url" bson:"url" binding:"required,url"`
}

type CreateLectureRequest struct {
	Number    int               `json:"number" binding:"required,min=1,max=512"`
	Title     string            `json:"title" binding:"required,min=2,max=256"`
	Abstract  string            `json:"abstract" binding:"omitempty,max=8000"`
	Room      string            `json:"room" binding:"omitempty,max=32"`
	StartsAt  *time.Time        `json:"starts_at" binding:"omitempty"`
	EndsAt    *time.Time        `json:"ends_at" binding:"omitempty,gtfield=StartsAt"`
	Materials []LectureMaterial `json:"materials" binding:"omitempty,dive"`
}

type UpdateLectureRequest struct {
	Number    *int               `json:"number" binding:"omitempty,min=1,max=512"`
	Title     *string            `json:"title" binding:"omitempty,min=2,max=256"`
	Abstract  *string            `json:"abstract" binding:"omitempty,max=8000"`
	Room      *string            `json:"room" binding:"omitempty,max=32"`
	StartsAt  *time.Time         `json:"starts_at" binding:"omitempty"`
	EndsAt    *time.Time         `json:"ends_at" binding:"omitempty"`
	Materials *[]LectureMaterial `json:"materials" binding:"omitempty,dive"`
}
