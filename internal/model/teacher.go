package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher is a staff member profile. Views counts detail-page hits and
// is bumped asynchronously, so reads may trail reality by a little.
type Teacher struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName      string             `json:"first_name" bson:"first_name"`
	MiddleName     string             `json:"middle_name,omitempty" bson:"middle_name,omitempty"`
	LastName       string             `json:"last_name" bson:"last_name"`
	Photo          string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Faculty        string             `json:"faculty" bson:"faculty"`
	Departments    []string           `json:"departments,omitempty" bson:"departments,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Degree         string             `json:"degree,omitempty" bson:"degree,omitempty"`
	Position       string             `json:"position,omitempty" bson:"position,omitempty"`
	Publications   []Publication      `json:"publications,omitempty" bson:"publications,omitempty"`
	Contacts       string             `json:"contacts,omitempty" bson:"contacts,omitempty"`
	Views          int64              `json:"views" bson:"views"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at" bson:"last_accessed_at"`
}

type Publication struct {
	Title string `json:"title" bson:"title" binding:"required,min=1,max=256"`
	Link  string `json:"link" bson:"link" binding:"omitempty,url"`
}

// FullName joins the name parts, skipping an absent middle name.
func (t *Teacher) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.LastName, t.FirstName, t.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// TeacherRef is the compact embedding of a teacher inside other
// documents and responses.
type TeacherRef struct {
	ID       primitive.ObjectID `json:"id" bson:"id"`
	FullName string             `json:"full_name" bson:"full_name"`
}

func (t *Teacher) Ref() TeacherRef {
	return TeacherRef{ID: t.ID, FullName: t.FullName()}
}

type CreateTeacherRequest struct {
	FirstName    string        `json:"first_name" binding:"required,min=1,max=64"`
	MiddleName   string        `json:"middle_name" binding:"omitempty,max=64"`
	LastName     string        `json:"last_name" binding:"required,min=1,max=64"`
	Photo        string        `json:"photo" binding:"omitempty,url"`
	Faculty      string        `json:"faculty" binding:"required,min=1,max=128"`
	Departments  []string      `json:"departments" binding:"omitempty,dive,min=1,max=128"`
	Bio          string        `json:"bio" binding:"omitempty,max=4000"`
	Degree       string        `json:"degree" binding:"omitempty,max=128"`
	Position     string        `json:"position" binding:"omitempty,max=128"`
	Publications []Publication `json:"publications" binding:"omitempty,dive"`
	Contacts     string        `json:"contacts" binding:"omitempty,max=512"`
}

type UpdateTeacherRequest struct {
	FirstName    *string        `json:"first_name" binding:"omitempty,min=1,max=64"`
	MiddleName   *string        `json:"middle_name" binding:"omitempty,max=64"`
	LastName     *string        `json:"last_name" binding:"omitempty,min=1,max=64"`
	Photo        *string        `json:"photo" binding:"omitempty,url"`
	Faculty      *string        `json:"faculty" binding:"omitempty,min=1,max=128"`
	Departments  *[]string      `json:"departments" binding:"omitempty,dive,min=1,max=128"`
	Bio          *string        `json:"bio" binding:"omitempty,max=4000"`
	Degree       *string        `json:"degree" binding:"omitempty,max=128"`
	Position     *string        `json:"position" binding:"omitempty,max=128"`
	Publications *[]Publication `json:"publications" binding:"omitempty,dive"`
	Contacts     *string        `json:"contacts" binding:"omitempty,max=512"`
}
