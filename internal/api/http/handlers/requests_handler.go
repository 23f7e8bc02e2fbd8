package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/facility-desk/internal/api/dto"
	"github.com/campusops/facility-desk/internal/auth"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/service"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// RequestsHandler manages maintenance request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CreateRequestInput{
		Title:            req.Title,
		Description:      req.Description,
		SpecificLocation: req.SpecificLocation,
		BeforeImageURL:   req.BeforeImageURL,
		AutoClassify:     req.AutoClassify,
	}
	if req.Category != "" {
		category, ok := domain.ParseCategory(req.Category)
		if !ok {
			return apperrors.NewValidationError("unknown category", map[string]any{"category": req.Category})
		}
		input.Category = category
	}
	if req.Location != "" {
		location, ok := domain.ParseLocation(req.Location)
		if !ok {
			return apperrors.NewValidationError("unknown location", map[string]any{"location": req.Location})
		}
		input.Location = location
	}
	if req.Urgency != "" {
		urgency, ok := domain.ParseUrgency(req.Urgency)
		if !ok {
			return apperrors.NewValidationError("unknown urgency", map[string]any{"urgency": req.Urgency})
		}
		input.Urgency = urgency
	}

	created, err := h.service.CreateRequest(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestDetail(created)})
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseRequestFilter(c)
	if err != nil {
		return err
	}
	requests, err := h.service.ListVisible(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, requestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	req, err := h.service.GetRequest(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(req)})
}

// ChangeStatus POST /requests/:id/status.
func (h *RequestsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseStatus(strings.TrimSpace(req.Status))
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	updated, err := h.service.TransitionStatus(c.UserContext(), actor, c.Params("id"), service.TransitionInput{
		Status:        status,
		Note:          req.Note,
		AfterImageURL: req.AfterImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(updated)})
}

// CancelRequest POST /requests/:id/cancel.
func (h *RequestsHandler) CancelRequest(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	updated, err := h.service.CancelRequest(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(updated)})
}

// DeleteRequest DELETE /requests/:id.
func (h *RequestsHandler) DeleteRequest(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteRequest(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddComment POST /requests/:id/comments.
func (h *RequestsHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// SubmitFeedback POST /requests/:id/feedback.
func (h *RequestsHandler) SubmitFeedback(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.service.SubmitFeedback(c.UserContext(), actor, c.Params("id"), service.FeedbackInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(updated)})
}

// Suggest POST /requests/suggest.
func (h *RequestsHandler) Suggest(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	location, ok := domain.ParseLocation(req.Location)
	if !ok {
		location = domain.LocationOther
	}
	suggestion, available, err := h.service.Suggest(c.UserContext(), actor, req.Description, location)
	if err != nil {
		return err
	}
	resp := dto.SuggestionResponse{Available: available}
	if available {
		resp.Category = suggestion.Category
		resp.Urgency = suggestion.Urgency
		resp.Title = suggestion.Summary
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseRequestFilter(c *fiber.Ctx) (service.RequestFilter, error) {
	filter := service.RequestFilter{}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, "all") {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return filter, apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		filter.Status = status
	}
	from, err := parseDateBound(c.Query("created_from"), false)
	if err != nil {
		return filter, err
	}
	to, err := parseDateBound(c.Query("created_to"), true)
	if err != nil {
		return filter, err
	}
	filter.CreatedFrom, filter.CreatedTo = from, to
	return filter, nil
}

// parseDateBound accepts RFC3339 or a bare date. A bare upper bound covers the
// whole day.
func parseDateBound(val string, endOfDay bool) (*time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{"value": val})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}

func requestSummary(req *domain.Request) dto.RequestSummary {
	return dto.RequestSummary{
		ID:            req.ID,
		Title:         req.Title,
		Category:      req.Category,
		Location:      req.Location,
		Urgency:       req.Urgency,
		Status:        req.Status,
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		AssigneeID:    req.AssigneeID,
		CreatedAt:     req.CreatedAt,
	}
}

func requestDetail(req *domain.Request) dto.RequestDetail {
	timeline := make([]dto.TimelineEventResponse, 0, len(req.Timeline))
	for _, ev := range req.Timeline {
		timeline = append(timeline, dto.TimelineEventResponse{Status: ev.Status, Timestamp: ev.Timestamp, Note: ev.Note})
	}
	comments := make([]dto.CommentResponse, 0, len(req.Comments))
	for i := range req.Comments {
		comments = append(comments, commentResponse(&req.Comments[i]))
	}
	return dto.RequestDetail{
		ID:               req.ID,
		RequesterID:      req.RequesterID,
		RequesterName:    req.RequesterName,
		RequesterEmail:   req.RequesterEmail,
		AssigneeID:       req.AssigneeID,
		AssigneeName:     req.AssigneeName,
		AssigneeEmail:    req.AssigneeEmail,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		SpecificLocation: req.SpecificLocation,
		Urgency:          req.Urgency,
		Status:           req.Status,
		BeforeImageURL:   req.BeforeImageURL,
		AfterImageURL:    req.AfterImageURL,
		HoldReason:       req.HoldReason,
		FeedbackRating:   req.FeedbackRating,
		FeedbackComment:  req.FeedbackComment,
		Timeline:         timeline,
		Comments:         comments,
		CreatedAt:        req.CreatedAt,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Text:       comment.Text,
		Timestamp:  comment.Timestamp,
	}
}
