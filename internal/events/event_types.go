package events

import (
	"time"

	"github.com/campusops/facility-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated           EventType = "request_created"
	EventRequestStatusChanged     EventType = "request_status_changed"
	EventRequestAssigned          EventType = "request_assigned"
	EventRequestCommentAdded      EventType = "request_comment_added"
	EventRequestDeleted           EventType = "request_deleted"
	EventRequestFeedbackSubmitted EventType = "request_feedback_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// ActorFrom copies the identity fields of a domain actor.
func ActorFrom(actor domain.Actor) Actor {
	return Actor{ID: actor.ID, Name: actor.Name, Role: actor.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Title    string          `json:"title"`
	Category domain.Category `json:"category"`
	Location domain.Location `json:"location"`
	Urgency  domain.Urgency  `json:"urgency"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	Note      string        `json:"note,omitempty"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	AssigneeID    string `json:"assignee_id"`
	AssigneeEmail string `json:"assignee_email"`
}

// RequestCommentAddedPayload payload.
type RequestCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// RequestFeedbackPayload payload.
type RequestFeedbackPayload struct {
	Rating int `json:"rating"`
}
