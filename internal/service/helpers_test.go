package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusops/facility-desk/internal/classifier"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/events"
	"github.com/campusops/facility-desk/internal/repository"
)

var t0 = time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	staffAlice = domain.Actor{ID: "u-alice", Name: "Alice", Email: "alice@school.test", Role: domain.RoleStaff, Approved: true}
	staffBob   = domain.Actor{ID: "u-bob", Name: "Bob", Email: "bob@school.test", Role: domain.RoleStaff, Approved: true}
	workerWes  = domain.Actor{ID: "u-wes", Name: "Wes", Email: "wes@maint.test", Role: domain.RoleWorker, Approved: true}
	workerVic  = domain.Actor{ID: "u-vic", Name: "Vic", Email: "vic@maint.test", Role: domain.RoleWorker, Approved: true}
	adminAmy   = domain.Actor{ID: "u-amy", Name: "Amy", Email: "amy@school.test", Role: domain.RoleAdmin, Approved: true}
)

type stubClassifier struct {
	suggestion classifier.Suggestion
	err        error
	calls      int
}

func (s *stubClassifier) Classify(context.Context, string, domain.Location) (classifier.Suggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

type requestFixture struct {
	svc       *RequestService
	repo      repository.RequestRepository
	clock     *manualClock
	published []events.Event
}

func newRequestFixture(t *testing.T, cls classifier.Classifier) *requestFixture {
	t.Helper()
	f := &requestFixture{
		repo:  repository.NewRequestRepository(),
		clock: &manualClock{now: t0},
	}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventRequestCreated,
		events.EventRequestStatusChanged,
		events.EventRequestAssigned,
		events.EventRequestCommentAdded,
		events.EventRequestDeleted,
		events.EventRequestFeedbackSubmitted,
	} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}
	f.svc = NewRequestService(RequestDependencies{
		RequestRepo: f.repo,
		Classifier:  cls,
		Dispatcher:  dispatcher,
		Clock:       f.clock.Now,
	})
	return f
}

func (f *requestFixture) create(t *testing.T, actor domain.Actor, category domain.Category) *domain.Request {
	t.Helper()
	req, err := f.svc.CreateRequest(context.Background(), actor, CreateRequestInput{
		Title:       "Lights flicker",
		Description: "Ceiling lights flicker in room 204",
		Category:    category,
		Location:    domain.LocationPAC,
		Urgency:     domain.UrgencyMedium,
	})
	require.NoError(t, err)
	return req
}

func (f *requestFixture) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		types = append(types, e.Type)
	}
	return types
}
