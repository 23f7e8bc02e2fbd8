package domain

import "time"

// Status enumerates lifecycle states for maintenance requests.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusOnHold     Status = "OnHold"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusPending, StatusInProgress, StatusOnHold:
		return false
	default:
		return false
	}
}

// Label is the human readable form used in reports.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusOnHold:
		return "On Hold"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseStatus accepts either the code or the label form.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if raw == string(s) || raw == s.Label() {
			return s, true
		}
	}
	return "", false
}

// TimelineEvent records one status change. Immutable once appended.
type TimelineEvent struct {
	Status    Status
	Timestamp time.Time
	Note      string
}

// Comment is one entry in a request's discussion thread. Immutable once appended.
type Comment struct {
	ID         string
	AuthorID   string
	AuthorName string
	Text       string
	Timestamp  time.Time
}

// Request is the aggregate for a maintenance or service ticket.
type Request struct {
	ID               string
	RequesterID      string
	RequesterName    string
	RequesterEmail   string
	AssigneeID       string
	AssigneeName     string
	AssigneeEmail    string
	Title            string
	Description      string
	Category         Category
	Location         Location
	SpecificLocation string
	Urgency          Urgency
	Status           Status
	BeforeImageURL   string
	AfterImageURL    string
	Timeline         []TimelineEvent
	Comments         []Comment
	HoldReason       string
	FeedbackRating   int
	FeedbackComment  string
	CreatedAt        time.Time
}

// HasAssignee reports whether a worker has been captured as assignee.
func (r *Request) HasAssignee() bool {
	return r.AssigneeID != ""
}

// LastEvent returns the most recent timeline entry.
func (r *Request) LastEvent() (TimelineEvent, bool) {
	if len(r.Timeline) == 0 {
		return TimelineEvent{}, false
	}
	return r.Timeline[len(r.Timeline)-1], true
}

// FirstEvent returns the earliest timeline entry with the given status.
func (r *Request) FirstEvent(status Status) (TimelineEvent, bool) {
	for _, ev := range r.Timeline {
		if ev.Status == status {
			return ev, true
		}
	}
	return TimelineEvent{}, false
}

// Clone returns a deep copy so that callers never share timeline or comment storage.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Timeline = append([]TimelineEvent(nil), r.Timeline...)
	cp.Comments = append([]Comment(nil), r.Comments...)
	return &cp
}
