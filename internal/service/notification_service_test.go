package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/config"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/events"
	"github.com/campusops/facility-desk/internal/repository"
)

type countingRecorder struct {
	counts map[string]int
}

func (r *countingRecorder) RecordEvent(eventType string) {
	r.counts[eventType]++
}

func TestNotificationServiceCountsRequestEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &countingRecorder{counts: map[string]int{}}
	notifications := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		EmailFrom:  "desk@school.test",
		WebhookURL: "https://hooks.test/desk",
	}, recorder)
	notifications.RegisterHandlers()

	clock := &manualClock{now: t0}
	svc := NewRequestService(RequestDependencies{
		RequestRepo: repository.NewRequestRepository(),
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	})
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, staffAlice, CreateRequestInput{Description: "Broken chair in PAC"})
	require.NoError(t, err)
	_, err = svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusInProgress})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, workerWes, req.ID, "fixing now")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRequest(ctx, adminAmy, req.ID))

	assert.Equal(t, map[string]int{
		"request_created":        1,
		"request_status_changed": 1,
		"request_assigned":       1,
		"request_comment_added":  1,
		"request_deleted":        1,
	}, recorder.counts)
}

func TestNotificationServiceWithoutDispatcher(t *testing.T) {
	notifications := NewNotificationService(nil, nil, config.NotificationConfig{}, nil)
	assert.NotPanics(t, notifications.RegisterHandlers)
}
