package dto

import (
	"time"

	"github.com/campusops/facility-desk/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	SpecificLocation string `json:"specific_location"`
	Urgency          string `json:"urgency"`
	BeforeImageURL   string `json:"before_image_url"`
	AutoClassify     bool   `json:"auto_classify"`
}

// TransitionRequest payload.
type TransitionRequest struct {
	Status        string `json:"status"`
	Note          string `json:"note"`
	AfterImageURL string `json:"after_image_url"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SuggestRequest payload.
type SuggestRequest struct {
	Description string `json:"description"`
	Location    string `json:"location"`
}

// SuggestionResponse is empty when no suggestion is available.
type SuggestionResponse struct {
	Available bool            `json:"available"`
	Category  domain.Category `json:"category,omitempty"`
	Urgency   domain.Urgency  `json:"urgency,omitempty"`
	Title     string          `json:"title,omitempty"`
}

// TimelineEventResponse entry.
type TimelineEventResponse struct {
	Status    domain.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Note      string        `json:"note,omitempty"`
}

// CommentResponse entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// RequestSummary is the list form of a request.
type RequestSummary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Category      domain.Category `json:"category"`
	Location      domain.Location `json:"location"`
	Urgency       domain.Urgency  `json:"urgency"`
	Status        domain.Status   `json:"status"`
	RequesterID   string          `json:"requester_id"`
	RequesterName string          `json:"requester_name"`
	AssigneeID    string          `json:"assignee_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RequestDetail provides full request info.
type RequestDetail struct {
	ID               string                  `json:"id"`
	RequesterID      string                  `json:"requester_id"`
	RequesterName    string                  `json:"requester_name"`
	RequesterEmail   string                  `json:"requester_email"`
	AssigneeID       string                  `json:"assignee_id,omitempty"`
	AssigneeName     string                  `json:"assignee_name,omitempty"`
	AssigneeEmail    string                  `json:"assignee_email,omitempty"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Category         domain.Category         `json:"category"`
	Location         domain.Location         `json:"location"`
	SpecificLocation string                  `json:"specific_location,omitempty"`
	Urgency          domain.Urgency          `json:"urgency"`
	Status           domain.Status           `json:"status"`
	BeforeImageURL   string                  `json:"before_image_url,omitempty"`
	AfterImageURL    string                  `json:"after_image_url,omitempty"`
	HoldReason       string                  `json:"hold_reason,omitempty"`
	FeedbackRating   int                     `json:"feedback_rating,omitempty"`
	FeedbackComment  string                  `json:"feedback_comment,omitempty"`
	Timeline         []TimelineEventResponse `json:"timeline"`
	Comments         []CommentResponse       `json:"comments"`
	CreatedAt        time.Time               `json:"created_at"`
}

// CategoryCountResponse entry.
type CategoryCountResponse struct {
	Name  domain.Category `json:"name"`
	Label string          `json:"label"`
	Value int             `json:"value"`
}

// StatsResponse aggregates dashboard numbers.
type StatsResponse struct {
	Total              int                     `json:"total"`
	Pending            int                     `json:"pending"`
	Completed          int                     `json:"completed"`
	AvgCompletionHours float64                 `json:"avg_completion_time_hours"`
	CategoryBreakdown  []CategoryCountResponse `json:"category_breakdown"`
}
