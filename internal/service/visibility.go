package service

import (
	"sort"
	"time"

	"github.com/campusops/facility-desk/internal/domain"
)

// RequestFilter narrows a visible request list. Zero values match everything.
type RequestFilter struct {
	Status      domain.Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

func (f RequestFilter) matches(req *domain.Request) bool {
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	if f.CreatedFrom != nil && req.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && req.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// CanSee reports whether actor may read req.
func CanSee(actor domain.Actor, req *domain.Request) bool {
	switch actor.Role {
	case domain.RoleWorker, domain.RoleAdmin:
		return true
	case domain.RoleStaff:
		return req.RequesterID == actor.ID
	default:
		return false
	}
}

// Visible projects requests down to what actor may see, applies filter and orders
// the result newest first.
func Visible(requests []domain.Request, actor domain.Actor, filter RequestFilter) []domain.Request {
	result := make([]domain.Request, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		if !CanSee(actor, req) || !filter.matches(req) {
			continue
		}
		result = append(result, *req)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
