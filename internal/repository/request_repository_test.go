package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/facility-desk/internal/domain"
)

func newPendingRequest() *domain.Request {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Request{
		RequesterID: "u1",
		Title:       "Leaking tap",
		Category:    domain.CategoryRepair,
		Status:      domain.StatusPending,
		Timeline:    []domain.TimelineEvent{{Status: domain.StatusPending, Timestamp: now}},
		CreatedAt:   now,
	}
}

func TestRequestRepositoryCreateAssignsID(t *testing.T) {
	repo := NewRequestRepository()
	req := newPendingRequest()

	id, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^REQ-[0-9A-F]{8}$`, id)
	assert.Equal(t, id, req.ID)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Leaking tap", got.Title)
}

func TestRequestRepositoryNeverReusesDeletedIDs(t *testing.T) {
	ids := []string{"REQ-1", "REQ-1", "REQ-2"}
	repo := newRequestRepository(func() string {
		next := ids[0]
		ids = ids[1:]
		return next
	})
	ctx := context.Background()

	first, err := repo.Create(ctx, newPendingRequest())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first))

	second, err := repo.Create(ctx, newPendingRequest())
	require.NoError(t, err)
	assert.Equal(t, "REQ-2", second)

	explicit := newPendingRequest()
	explicit.ID = first
	_, err = repo.Create(ctx, explicit)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestRequestRepositoryFailedUpdateLeavesRecordIntact(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()
	id, err := repo.Create(ctx, newPendingRequest())
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, id, func(req *domain.Request) error {
		req.Title = "changed"
		req.Timeline = append(req.Timeline, domain.TimelineEvent{Status: domain.StatusInProgress})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Leaking tap", got.Title)
	assert.Len(t, got.Timeline, 1)
}

func TestRequestRepositoryReturnsCopies(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()
	id, err := repo.Create(ctx, newPendingRequest())
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	got.Timeline[0].Note = "tampered"

	again, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, again.Timeline[0].Note)
}

func TestRequestRepositoryMissingRecord(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, "nope", func(*domain.Request) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), ErrNotFound)
}
