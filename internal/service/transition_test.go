package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/facility-desk/internal/domain"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

func TestTransitionTimelineGrowsByOnePerSuccess(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryElectric)

	steps := []TransitionInput{
		{Status: domain.StatusInProgress},
		{Status: domain.StatusOnHold, Note: "waiting for parts"},
		{Status: domain.StatusInProgress},
		{Status: domain.StatusCompleted, Note: "replaced ballast"},
	}
	for i, step := range steps {
		f.clock.Advance(time.Hour)
		updated, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, step)
		require.NoError(t, err)
		require.Len(t, updated.Timeline, i+2)
		last, _ := updated.LastEvent()
		assert.Equal(t, updated.Status, last.Status)
		assert.Equal(t, f.clock.Now(), last.Timestamp)
	}
}

func TestTransitionRejectedLeavesTimelineUnchanged(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryElectric)

	_, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusCompleted})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	stored, err := f.repo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Timeline, 1)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, stored.AssigneeID)
}

func TestTransitionOnHoldRequiresNote(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryRepair)
	_, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusInProgress})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusOnHold, Note: "   "})
	assert.True(t, apperrors.IsValidation(err))

	updated, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusOnHold, Note: "Parts ordered"})
	require.NoError(t, err)
	assert.Equal(t, "Parts ordered", updated.HoldReason)
	last, _ := updated.LastEvent()
	assert.Equal(t, "Parts ordered", last.Note)
}

func TestTransitionAssigneeIsPermanent(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryRepair)

	updated, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, workerWes.ID, updated.AssigneeID)
	assert.Equal(t, workerWes.Email, updated.AssigneeEmail)

	_, err = f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusOnHold, Note: "blocked"})
	require.NoError(t, err)
	updated, err = f.svc.TransitionStatus(ctx, workerVic, req.ID, TransitionInput{Status: domain.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, workerWes.ID, updated.AssigneeID)

	assert.Equal(t, 1, countType(f.eventTypes(), "request_assigned"))
}

func TestTransitionCancelRules(t *testing.T) {
	ctx := context.Background()

	t.Run("requester cancels pending", func(t *testing.T) {
		f := newRequestFixture(t, nil)
		req := f.create(t, staffAlice, domain.CategoryOther)
		updated, err := f.svc.CancelRequest(ctx, staffAlice, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, updated.Status)
		last, _ := updated.LastEvent()
		assert.Equal(t, CancelNote, last.Note)
	})

	t.Run("other actors are refused", func(t *testing.T) {
		f := newRequestFixture(t, nil)
		req := f.create(t, staffAlice, domain.CategoryOther)
		for _, actor := range []domain.Actor{staffBob, workerWes, adminAmy} {
			_, err := f.svc.CancelRequest(ctx, actor, req.ID)
			assert.True(t, apperrors.IsForbidden(err), actor.ID)
		}
		stored, err := f.repo.Get(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})

	t.Run("only from pending", func(t *testing.T) {
		f := newRequestFixture(t, nil)
		req := f.create(t, staffAlice, domain.CategoryOther)
		_, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusInProgress})
		require.NoError(t, err)
		_, err = f.svc.CancelRequest(ctx, staffAlice, req.ID)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryOther)
	_, err := f.svc.CancelRequest(ctx, staffAlice, req.ID)
	require.NoError(t, err)

	for _, status := range domain.Statuses {
		_, err := f.svc.TransitionStatus(ctx, adminAmy, req.ID, TransitionInput{Status: status})
		assert.True(t, apperrors.IsValidation(err), status)
	}
}

func TestTransitionStaffCannotProgressWork(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryOther)

	_, err := f.svc.TransitionStatus(ctx, staffAlice, req.ID, TransitionInput{Status: domain.StatusInProgress})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestTransitionUnknownRequest(t *testing.T) {
	f := newRequestFixture(t, nil)
	_, err := f.svc.TransitionStatus(context.Background(), workerWes, "REQ-MISSING", TransitionInput{Status: domain.StatusInProgress})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTransitionCompletionReplacesAfterImage(t *testing.T) {
	f := newRequestFixture(t, nil)
	ctx := context.Background()
	req := f.create(t, staffAlice, domain.CategoryOther)
	_, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{Status: domain.StatusInProgress})
	require.NoError(t, err)

	updated, err := f.svc.TransitionStatus(ctx, workerWes, req.ID, TransitionInput{
		Status:        domain.StatusCompleted,
		AfterImageURL: "https://img.test/after.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/after.jpg", updated.AfterImageURL)
}

func TestApplyTransitionClampsBackwardsClock(t *testing.T) {
	req := &domain.Request{
		RequesterID: staffAlice.ID,
		Status:      domain.StatusPending,
		Timeline:    []domain.TimelineEvent{{Status: domain.StatusPending, Timestamp: t0}},
	}
	_, err := applyTransition(req, workerWes, TransitionInput{Status: domain.StatusInProgress}, t0.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, t0, req.Timeline[1].Timestamp)
}

func countType[T ~string](types []T, want string) int {
	n := 0
	for _, tp := range types {
		if string(tp) == want {
			n++
		}
	}
	return n
}
