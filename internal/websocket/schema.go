package websocket

import "github.com/librekpi/backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventFeedback Event = "feedback"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// FeedbackFrame wraps a feedback event for the moderation stream.
type FeedbackFrame struct {
	Event   Event               `json:"event"`
	Payload model.FeedbackEvent `json:"payload"`
}

type ErrorFrame struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongFrame struct {
	Event Event `json:"event"`
}
