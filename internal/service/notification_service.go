package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/config"
	"github.com/campusops/facility-desk/internal/events"
)

// EventRecorder counts published events.
type EventRecorder interface {
	RecordEvent(eventType string)
}

// NotificationService relays request events to requesters and assignees.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	recorder   EventRecorder
}

// NewNotificationService creates the service. recorder may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, recorder EventRecorder) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		recorder:   recorder,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventRequestCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventRequestDeleted, n.handleDeleted)
	n.dispatcher.Subscribe(events.EventRequestFeedbackSubmitted, n.handleFeedback)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestCreated", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestStatusChanged", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestAssigned", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestCommentAdded", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDeleted(_ context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestDeleted", zap.String("request_id", event.RequestID), zap.String("actor_id", event.Actor.ID))
	return nil
}

func (n *NotificationService) handleFeedback(ctx context.Context, event events.Event) error {
	n.record(event)
	n.logger.Info("RequestFeedbackSubmitted", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) record(event events.Event) {
	if n.recorder != nil {
		n.recorder.RecordEvent(string(event.Type))
	}
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}
