package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campusops/facility-desk/internal/domain"
)

// RequestMutation edits a request in place. Returning an error discards the edit.
type RequestMutation func(req *domain.Request) error

// RequestRepository encapsulates request storage.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) (string, error)
	Get(ctx context.Context, id string) (*domain.Request, error)
	Update(ctx context.Context, id string, mutate RequestMutation) (*domain.Request, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Request, error)
}

type requestRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Request
	issued map[string]struct{}
	newID  func() string
}

// NewRequestRepository returns an in-memory store.
func NewRequestRepository() RequestRepository {
	return newRequestRepository(generateRequestID)
}

func newRequestRepository(newID func() string) *requestRepository {
	return &requestRepository{
		byID:   make(map[string]*domain.Request),
		issued: make(map[string]struct{}),
		newID:  newID,
	}
}

// Create stores a copy of req and returns its identifier. An empty ID is filled in;
// identifiers are never handed out twice, even after deletion.
func (r *requestRepository) Create(_ context.Context, req *domain.Request) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := req.ID
	if id == "" {
		for {
			id = r.newID()
			if _, taken := r.issued[id]; !taken {
				break
			}
		}
	} else if _, taken := r.issued[id]; taken {
		return "", ErrDuplicateID
	}

	stored := req.Clone()
	stored.ID = id
	r.byID[id] = stored
	r.issued[id] = struct{}{}
	req.ID = id
	return id, nil
}

func (r *requestRepository) Get(_ context.Context, id string) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return req.Clone(), nil
}

// Update applies mutate to a copy of the record under the write lock and stores the
// copy only when mutate succeeds.
func (r *requestRepository) Update(_ context.Context, id string, mutate RequestMutation) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	draft := current.Clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	draft.ID = current.ID
	r.byID[id] = draft
	return draft.Clone(), nil
}

func (r *requestRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *requestRepository) List(_ context.Context) ([]domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Request, 0, len(r.byID))
	for _, req := range r.byID {
		result = append(result, *req.Clone())
	}
	return result, nil
}

func generateRequestID() string {
	return "REQ-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
