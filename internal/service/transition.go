package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusops/facility-desk/internal/domain"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

// CancelNote is recorded on every requester cancellation.
const CancelNote = "Cancelled by requester"

// TransitionInput describes a requested status change.
type TransitionInput struct {
	Status        domain.Status
	Note          string
	AfterImageURL string
}

// transitionOutcome reports side effects the caller may want to publish.
type transitionOutcome struct {
	From     domain.Status
	To       domain.Status
	Note     string
	Assigned bool
}

var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusPending:    {domain.StatusInProgress, domain.StatusCancelled},
	domain.StatusInProgress: {domain.StatusOnHold, domain.StatusCompleted},
	domain.StatusOnHold:     {domain.StatusInProgress},
	domain.StatusCompleted:  {},
	domain.StatusCancelled:  {},
}

func isValidTransition(current, next domain.Status) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// applyTransition validates and applies a status change to req. On error req may be
// partially edited; callers run it against a draft that is discarded on failure.
func applyTransition(req *domain.Request, actor domain.Actor, in TransitionInput, now time.Time) (transitionOutcome, error) {
	from := req.Status
	to := in.Status
	if !to.Valid() {
		return transitionOutcome{}, apperrors.NewValidationError(
			fmt.Sprintf("unknown status %q", to), map[string]any{"status": to})
	}
	if from.IsTerminal() {
		return transitionOutcome{}, apperrors.NewValidationError(
			fmt.Sprintf("request is %s; no further transitions are permitted", from),
			map[string]any{"from": from, "to": to})
	}
	if !isValidTransition(from, to) {
		return transitionOutcome{}, apperrors.NewValidationError(
			fmt.Sprintf("transition %s -> %s is not permitted", from, to),
			map[string]any{"from": from, "to": to})
	}

	outcome := transitionOutcome{From: from, To: to, Note: strings.TrimSpace(in.Note)}

	switch to {
	case domain.StatusInProgress:
		if err := requireWorker(actor); err != nil {
			return transitionOutcome{}, err
		}
		if !req.HasAssignee() {
			req.AssigneeID = actor.ID
			req.AssigneeName = actor.Name
			req.AssigneeEmail = actor.Email
			outcome.Assigned = true
		}
	case domain.StatusOnHold:
		if err := requireWorker(actor); err != nil {
			return transitionOutcome{}, err
		}
		if outcome.Note == "" {
			return transitionOutcome{}, apperrors.NewValidationError("a hold reason is required to put a request on hold", nil)
		}
		req.HoldReason = outcome.Note
	case domain.StatusCompleted:
		if err := requireWorker(actor); err != nil {
			return transitionOutcome{}, err
		}
		if img := strings.TrimSpace(in.AfterImageURL); img != "" {
			req.AfterImageURL = img
		}
	case domain.StatusCancelled:
		if actor.ID == "" || actor.ID != req.RequesterID {
			return transitionOutcome{}, apperrors.NewForbidden("only the requester can cancel a request")
		}
		outcome.Note = CancelNote
	case domain.StatusPending:
		// unreachable: nothing transitions back to Pending
		return transitionOutcome{}, apperrors.NewValidationError("requests cannot return to Pending", nil)
	}

	appendTimeline(req, to, outcome.Note, now)
	return outcome, nil
}

// appendTimeline records the new status. Timestamps never run backwards.
func appendTimeline(req *domain.Request, status domain.Status, note string, now time.Time) {
	if last, ok := req.LastEvent(); ok && now.Before(last.Timestamp) {
		now = last.Timestamp
	}
	req.Timeline = append(req.Timeline, domain.TimelineEvent{Status: status, Timestamp: now, Note: note})
	req.Status = status
}

func requireWorker(actor domain.Actor) error {
	if !actor.Role.CanWork() {
		return apperrors.NewForbidden("only workers and administrators can progress requests")
	}
	return nil
}
