// Package seed loads the demo directory and request history used in local setups.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/repository"
)

// Load inserts demo users and requests. Timestamps are relative to now.
func Load(ctx context.Context, users repository.UserRepository, requests repository.RequestRepository, now time.Time, logger *zap.Logger) error {
	for _, u := range demoUsers(now) {
		user := u
		if err := users.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, r := range demoRequests(now) {
		req := r
		if _, err := requests.Create(ctx, &req); err != nil {
			return fmt.Errorf("seed request %s: %w", r.ID, err)
		}
	}
	if logger != nil {
		logger.Info("demo data loaded")
	}
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func demoUsers(now time.Time) []domain.User {
	return []domain.User{
		{ID: "u1", UserCode: "USR-1001", Name: "Ji-Min Kim", Email: "jimin.kim@branksome.asia", Role: domain.RoleStaff, Department: "Science Dept", Approved: true, CreatedAt: date(2024, time.January, 15)},
		{ID: "u2", UserCode: "USR-2002", Name: "Chul-Soo Park", Email: "park.cs@maintenance.com", Role: domain.RoleWorker, Approved: true, CreatedAt: date(2024, time.January, 10)},
		{ID: "u3", UserCode: "USR-0001", Name: "Chiho Yun", Email: "chihoyun@branksome.asia", Role: domain.RoleAdmin, Approved: true, CreatedAt: date(2024, time.January, 1)},
		{ID: "u5", UserCode: "USR-3005", Name: "Requester Test", Email: "chihoyun2@branksome.asia", Role: domain.RoleStaff, Approved: true, CreatedAt: date(2024, time.February, 1)},
		{ID: "u6", UserCode: "USR-4006", Name: "Worker Test", Email: "chihoyun3@branksome.asia", Role: domain.RoleWorker, Approved: true, CreatedAt: date(2024, time.February, 1)},
		{ID: "u4", UserCode: "USR-5001", Name: "New Teacher", Email: "teacher@branksome.asia", Role: domain.RoleStaff, Approved: false, CreatedAt: now},
	}
}

func demoRequests(now time.Time) []domain.Request {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	day := 24 * time.Hour

	return []domain.Request{
		{
			ID:             "req-101",
			RequesterID:    "u1",
			RequesterName:  "Ji-Min Kim",
			RequesterEmail: "jimin.kim@branksome.asia",
			Title:          "AC unit leaking in Lab 2",
			Description:    "The air conditioner in the science lab is dripping water onto the desks.",
			Category:       domain.CategoryMachinery,
			Location:       domain.LocationSTMEV,
			Urgency:        domain.UrgencyHigh,
			Status:         domain.StatusPending,
			BeforeImageURL: "https://images.unsplash.com/photo-1581094794329-cd1361ddee26?auto=format&fit=crop&q=80&w=400",
			Timeline:       []domain.TimelineEvent{{Status: domain.StatusPending, Timestamp: ago(day)}},
			Comments:       []domain.Comment{},
			CreatedAt:      ago(day),
		},
		{
			ID:             "req-102",
			RequesterID:    "u1",
			RequesterName:  "Ji-Min Kim",
			RequesterEmail: "jimin.kim@branksome.asia",
			AssigneeID:     "u2",
			AssigneeName:   "Chul-Soo Park",
			AssigneeEmail:  "park.cs@maintenance.com",
			Title:          "Projector broken",
			Description:    "Projector in room 304 does not turn on.",
			Category:       domain.CategoryElectric,
			Location:       domain.LocationSchoolCenter,
			Urgency:        domain.UrgencyMedium,
			Status:         domain.StatusCompleted,
			Timeline: []domain.TimelineEvent{
				{Status: domain.StatusPending, Timestamp: ago(2 * day)},
				{Status: domain.StatusCompleted, Timestamp: ago(day)},
			},
			Comments: []domain.Comment{
				{ID: "c1", AuthorID: "u2", AuthorName: "Chul-Soo Park", Text: "I will check it tomorrow morning.", Timestamp: ago(100000 * time.Second)},
				{ID: "c2", AuthorID: "u1", AuthorName: "Ji-Min Kim", Text: "Thank you! Please come before 9 AM.", Timestamp: ago(99000 * time.Second)},
			},
			CreatedAt:       ago(2 * day),
			FeedbackRating:  5,
			FeedbackComment: "Fast service, thanks!",
			AfterImageURL:   "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?auto=format&fit=crop&q=80&w=400",
		},
		{
			ID:             "req-103",
			RequesterID:    "u1",
			RequesterName:  "Ji-Min Kim",
			RequesterEmail: "jimin.kim@branksome.asia",
			AssigneeID:     "u2",
			AssigneeName:   "Chul-Soo Park",
			AssigneeEmail:  "park.cs@maintenance.com",
			Title:          "Broken window latch",
			Description:    "Window in the gym storage does not lock properly.",
			Category:       domain.CategoryRepair,
			Location:       domain.LocationWellnessCenter,
			Urgency:        domain.UrgencyLow,
			Status:         domain.StatusInProgress,
			Timeline: []domain.TimelineEvent{
				{Status: domain.StatusPending, Timestamp: ago(40000 * time.Second)},
				{Status: domain.StatusInProgress, Timestamp: ago(time.Hour)},
			},
			Comments:  []domain.Comment{},
			CreatedAt: ago(40000 * time.Second),
		},
	}
}
