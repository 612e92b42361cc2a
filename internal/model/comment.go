package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a course comment. Threads are one level deep: a reply's
// ParentID names a top-level comment, never another reply. Hidden
// comments stay in the collection but are masked for regular readers.
type Comment struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	CourseID   primitive.ObjectID  `json:"course_id" bson:"course_id"`
	UserID     primitive.ObjectID  `json:"user_id" bson:"user_id"`
	AuthorName string              `json:"author_name" bson:"author_name"`
	ParentID   *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Text       string              `json:"text" bson:"text"`
	Hidden     bool                `json:"hidden" bson:"hidden"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

// CommentThread groups a top-level comment with its replies for the
// course comments listing.
type CommentThread struct {
	Comment *Comment   `json:"comment"`
	Replies []*Comment `json:"replies"`
}

type CreateCommentRequest struct {
	Text     string `json:"text" binding:"required,min=1,max=4000"`
	ParentID string `json:"parent_id" binding:"omitempty,objectid"`
}
