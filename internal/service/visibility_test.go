package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/facility-desk/internal/domain"
)

func sampleRequests() []domain.Request {
	return []domain.Request{
		{ID: "r1", RequesterID: staffAlice.ID, Status: domain.StatusPending, CreatedAt: t0},
		{ID: "r2", RequesterID: staffBob.ID, Status: domain.StatusCompleted, CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "r3", RequesterID: staffAlice.ID, Status: domain.StatusCompleted, CreatedAt: t0.Add(48 * time.Hour)},
		{ID: "r4", RequesterID: staffBob.ID, Status: domain.StatusPending, CreatedAt: t0.Add(time.Hour)},
	}
}

func ids(requests []domain.Request) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}

func TestVisibleStaffSeesOnlyOwn(t *testing.T) {
	got := Visible(sampleRequests(), staffAlice, RequestFilter{})
	assert.Equal(t, []string{"r3", "r1"}, ids(got))
	for _, r := range got {
		assert.Equal(t, staffAlice.ID, r.RequesterID)
	}
}

func TestVisibleWorkersAndAdminsSeeAll(t *testing.T) {
	for _, actor := range []domain.Actor{workerWes, adminAmy} {
		got := Visible(sampleRequests(), actor, RequestFilter{})
		assert.Equal(t, []string{"r3", "r2", "r4", "r1"}, ids(got), actor.ID)
	}
}

func TestVisibleFilters(t *testing.T) {
	from := t0.Add(30 * time.Minute)
	to := t0.Add(2 * time.Hour)

	got := Visible(sampleRequests(), adminAmy, RequestFilter{Status: domain.StatusCompleted})
	assert.Equal(t, []string{"r3", "r2"}, ids(got))

	got = Visible(sampleRequests(), adminAmy, RequestFilter{CreatedFrom: &from, CreatedTo: &to})
	assert.Equal(t, []string{"r2", "r4"}, ids(got))
}

func TestVisibleUnknownRoleSeesNothing(t *testing.T) {
	got := Visible(sampleRequests(), domain.Actor{ID: "x", Role: "GUEST"}, RequestFilter{})
	assert.Empty(t, got)
}
