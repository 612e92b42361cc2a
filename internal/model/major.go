package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Major is a degree program. Code is the short registry code shown in
// listings ("121", "F7") and is unique across the collection.
type Major struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code        string             `json:"code" bson:"code"`
	Name        string             `json:"name" bson:"name"`
	Faculty     string             `json:"faculty" bson:"faculty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateMajorRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=16"`
	Name        string `json:"name" binding:"required,min=2,max=128"`
	Faculty     string `json:"faculty" binding:"required,min=1,max=128"`
	Description string `json:"description" binding:"omitempty,max=4000"`
}

type UpdateMajorRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=1,max=16"`
	Name        *string `json:"name" binding:"omitempty,min=2,max=128"`
	Faculty     *string `json:"faculty" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description" binding:"omitempty,max=4000"`
}
