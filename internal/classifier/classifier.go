// Package classifier suggests a category, urgency and short title for a free-text
// maintenance request. Suggestions are best effort: callers treat ErrUnavailable
// exactly as if no classifier had been asked.
package classifier

import (
	"context"
	"errors"

	"github.com/campusops/facility-desk/internal/domain"
)

// ErrUnavailable reports that no suggestion could be produced.
var ErrUnavailable = errors.New("classifier unavailable")

// Suggestion is the classifier's answer.
type Suggestion struct {
	Category domain.Category
	Urgency  domain.Urgency
	Summary  string
}

// Classifier produces suggestions from a description and location.
type Classifier interface {
	Classify(ctx context.Context, description string, location domain.Location) (Suggestion, error)
}

// Noop never has a suggestion.
type Noop struct{}

func (Noop) Classify(context.Context, string, domain.Location) (Suggestion, error) {
	return Suggestion{}, ErrUnavailable
}
