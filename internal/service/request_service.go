package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/classifier"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/events"
	"github.com/campusops/facility-desk/internal/repository"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

// DefaultTitle is used when a request is submitted without a title.
const DefaultTitle = "Maintenance Request"

const minClassifyLength = 5

// RequestService coordinates request workflows.
type RequestService struct {
	requests   repository.RequestRepository
	classifier classifier.Classifier
	dispatcher events.Dispatcher
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	Classifier  classifier.Classifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// CreateRequestInput describes request creation payload.
type CreateRequestInput struct {
	Title            string          `validate:"max=200"`
	Description      string          `validate:"required,max=5000"`
	Category         domain.Category `validate:"omitempty,category"`
	Location         domain.Location `validate:"omitempty,location"`
	SpecificLocation string          `validate:"max=200"`
	Urgency          domain.Urgency  `validate:"omitempty,urgency"`
	BeforeImageURL   string
	AutoClassify     bool
}

// FeedbackInput carries a requester's rating of completed work.
type FeedbackInput struct {
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"max=2000"`
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	svc := &RequestService{
		requests:   deps.RequestRepo,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		validate:   newValidator(),
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.classifier == nil {
		svc.classifier = classifier.Noop{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc
}

// CreateRequest records a new Pending request on behalf of actor.
func (s *RequestService) CreateRequest(ctx context.Context, actor domain.Actor, input CreateRequestInput) (*domain.Request, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.SpecificLocation = strings.TrimSpace(input.SpecificLocation)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if input.Location == "" {
		input.Location = domain.LocationOther
	}
	if input.AutoClassify {
		s.applySuggestion(ctx, &input)
	}
	if input.Title == "" {
		input.Title = DefaultTitle
	}
	if input.Category == "" {
		input.Category = domain.CategoryOther
	}
	if input.Urgency == "" {
		input.Urgency = domain.UrgencyMedium
	}

	now := s.now()
	req := &domain.Request{
		RequesterID:      actor.ID,
		RequesterName:    actor.Name,
		RequesterEmail:   actor.Email,
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Location:         input.Location,
		SpecificLocation: input.SpecificLocation,
		Urgency:          input.Urgency,
		Status:           domain.StatusPending,
		BeforeImageURL:   strings.TrimSpace(input.BeforeImageURL),
		Timeline:         []domain.TimelineEvent{{Status: domain.StatusPending, Timestamp: now}},
		Comments:         []domain.Comment{},
		CreatedAt:        now,
	}
	if _, err := s.requests.Create(ctx, req); err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: req.ID,
		Actor:     events.ActorFrom(actor),
		Payload: events.RequestCreatedPayload{
			Title:    req.Title,
			Category: req.Category,
			Location: req.Location,
			Urgency:  req.Urgency,
		},
	})
	return req, nil
}

// Suggest asks the classifier for a category, urgency and title. The boolean is
// false when no suggestion is available.
func (s *RequestService) Suggest(ctx context.Context, actor domain.Actor, description string, location domain.Location) (classifier.Suggestion, bool, error) {
	if err := requireApproved(actor); err != nil {
		return classifier.Suggestion{}, false, err
	}
	description = strings.TrimSpace(description)
	if len(description) < minClassifyLength {
		return classifier.Suggestion{}, false, nil
	}
	suggestion, err := s.classifier.Classify(ctx, description, location)
	if err != nil {
		return classifier.Suggestion{}, false, nil
	}
	return suggestion, true, nil
}

func (s *RequestService) applySuggestion(ctx context.Context, input *CreateRequestInput) {
	if len(input.Description) < minClassifyLength {
		return
	}
	suggestion, err := s.classifier.Classify(ctx, input.Description, input.Location)
	if err != nil {
		if !errors.Is(err, classifier.ErrUnavailable) {
			s.logger.Warn("classifier failed", zap.Error(err))
		}
		return
	}
	input.Category = suggestion.Category
	input.Urgency = suggestion.Urgency
	if input.Title == "" {
		input.Title = suggestion.Summary
	}
}

// GetRequest returns a request the actor is allowed to see.
func (s *RequestService) GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.Request, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, requestID)
	}
	if !CanSee(actor, req) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return req, nil
}

// TransitionStatus moves a request to a new status. The store is untouched on failure.
func (s *RequestService) TransitionStatus(ctx context.Context, actor domain.Actor, requestID string, in TransitionInput) (*domain.Request, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	var outcome transitionOutcome
	updated, err := s.requests.Update(ctx, requestID, func(req *domain.Request) error {
		var applyErr error
		outcome, applyErr = applyTransition(req, actor, in, s.now())
		return applyErr
	})
	if err != nil {
		return nil, notFoundOr(err, requestID)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: updated.ID,
		Actor:     events.ActorFrom(actor),
		Payload: events.RequestStatusChangedPayload{
			OldStatus: outcome.From,
			NewStatus: outcome.To,
			Note:      outcome.Note,
		},
	})
	if outcome.Assigned {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestAssigned,
			RequestID: updated.ID,
			Actor:     events.ActorFrom(actor),
			Payload: events.RequestAssignedPayload{
				AssigneeID:    updated.AssigneeID,
				AssigneeEmail: updated.AssigneeEmail,
			},
		})
	}
	return updated, nil
}

// CancelRequest withdraws a Pending request on behalf of its requester.
func (s *RequestService) CancelRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.Request, error) {
	return s.TransitionStatus(ctx, actor, requestID, TransitionInput{Status: domain.StatusCancelled})
}

// DeleteRequest permanently removes a request. Administrators only.
func (s *RequestService) DeleteRequest(ctx context.Context, actor domain.Actor, requestID string) error {
	if err := requireApproved(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only administrators can delete requests")
	}
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return notFoundOr(err, requestID)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestDeleted,
		RequestID: requestID,
		Actor:     events.ActorFrom(actor),
	})
	return nil
}

// AddComment appends a comment to the request's thread.
func (s *RequestService) AddComment(ctx context.Context, actor domain.Actor, requestID, text string) (*domain.Comment, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	var comment domain.Comment
	_, err := s.requests.Update(ctx, requestID, func(req *domain.Request) error {
		if !CanSee(actor, req) {
			return apperrors.NewForbidden("access denied")
		}
		if text == "" {
			return apperrors.NewValidationError("comment text must not be empty", nil)
		}
		comment = domain.Comment{
			ID:         generateCommentID(),
			AuthorID:   actor.ID,
			AuthorName: actor.Name,
			Text:       text,
			Timestamp:  s.now(),
		}
		req.Comments = append(req.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, requestID)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCommentAdded,
		RequestID: requestID,
		Actor:     events.ActorFrom(actor),
		Payload: events.RequestCommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Text, 120),
		},
	})
	return &comment, nil
}

// SubmitFeedback lets the requester rate a completed request.
func (s *RequestService) SubmitFeedback(ctx context.Context, actor domain.Actor, requestID string, input FeedbackInput) (*domain.Request, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	input.Comment = strings.TrimSpace(input.Comment)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	updated, err := s.requests.Update(ctx, requestID, func(req *domain.Request) error {
		if req.RequesterID != actor.ID {
			return apperrors.NewForbidden("only the requester can leave feedback")
		}
		if req.Status != domain.StatusCompleted {
			return apperrors.NewValidationError("feedback is accepted only for completed requests",
				map[string]any{"status": req.Status})
		}
		req.FeedbackRating = input.Rating
		req.FeedbackComment = input.Comment
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, requestID)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestFeedbackSubmitted,
		RequestID: requestID,
		Actor:     events.ActorFrom(actor),
		Payload:   events.RequestFeedbackPayload{Rating: input.Rating},
	})
	return updated, nil
}

// ListVisible returns the requests actor may see, newest first.
func (s *RequestService) ListVisible(ctx context.Context, actor domain.Actor, filter RequestFilter) ([]domain.Request, error) {
	if err := requireApproved(actor); err != nil {
		return nil, err
	}
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return Visible(all, actor, filter), nil
}

// ComputeStats aggregates the requests visible to actor.
func (s *RequestService) ComputeStats(ctx context.Context, actor domain.Actor, filter RequestFilter) (domain.Stats, error) {
	visible, err := s.ListVisible(ctx, actor, filter)
	if err != nil {
		return domain.Stats{}, err
	}
	return ComputeStats(visible, s.now()), nil
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func requireApproved(actor domain.Actor) error {
	if actor.ID == "" {
		return apperrors.NewUnauthorized("actor required")
	}
	if !actor.Approved {
		return apperrors.NewForbidden("account is awaiting administrator approval")
	}
	return nil
}

func notFoundOr(err error, requestID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
	}
	return mapStoreError(err)
}

func generateCommentID() string {
	return "CMT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateID):
		return apperrors.NewConflict("request id already issued", nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("record", nil)
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apperrors.NewInternalError(err)
}
