package model

import "time"

// RatingSubmission is the queue payload for a rating write. Accepted
// submissions are pushed to Redis and persisted by the rating worker,
// so the HTTP path never touches the ratings collection.
type RatingSubmission struct {
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	UserID      string      `json:"user_id"`
	Grade       Grade       `json:"grade"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// ActivityEvent records a detail-page visit. The activity worker folds
// these into view counters and last_accessed_at stamps in batches.
type ActivityEvent struct {
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	At          time.Time   `json:"at"`
}

// FeedbackEventType names a moderation-relevant change broadcast on the
// feedback pub/sub channel.
type FeedbackEventType string

const (
	FeedbackRatingSaved     FeedbackEventType = "rating.saved"
	FeedbackCommentCreated  FeedbackEventType = "comment.created"
	FeedbackCommentHidden   FeedbackEventType = "comment.hidden"
	FeedbackCommentUnhidden FeedbackEventType = "comment.unhidden"
	FeedbackCommentDeleted  FeedbackEventType = "comment.deleted"
)

// FeedbackEvent is the payload published to the feedback channel and
// relayed to moderators over the live stream. Only the fields relevant
// to the event type are set.
type FeedbackEvent struct {
	Type        FeedbackEventType `json:"type"`
	SubjectType SubjectType       `json:"subject_type,omitempty"`
	SubjectID   string            `json:"subject_id,omitempty"`
	CourseID    string            `json:"course_id,omitempty"`
	CommentID   string            `json:"comment_id,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	Grade       Grade             `json:"grade,omitempty"`
	At          time.Time         `json:"at"`
}
