package service

import (
	"context"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

// ActivityService reads the journal the worker writes from published events.
type ActivityService struct {
	activities repository.Store[model.Activity]
	limit      int
}

func NewActivityService(activities repository.Store[model.Activity], limit int) *ActivityService {
	return &ActivityService{activities: activities, limit: limit}
}

func (s *ActivityService) List(ctx context.Context, callerID, userID string) ([]*model.Activity, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}
	items, err := s.activities.Find(ctx, repository.Filter{UserID: userID, SortBy: "createdAt", Desc: true, Limit: s.limit})
	if err != nil {
		return nil, storeErr(err, "Activity")
	}
	return items, nil
}

// Record stores one journal entry, dated by CreatedAt when set. An entry
// with the same event id already on file is not duplicated.
func (s *ActivityService) Record(ctx context.Context, a *model.Activity) error {
	if a.EventID != "" {
		n, err := s.activities.Count(ctx, repository.Filter{UserID: a.UserID, Match: map[string]any{"eventId": a.EventID}})
		if err != nil {
			return storeErr(err, "Activity")
		}
		if n > 0 {
			return nil
		}
	}
	if _, err := s.activities.Insert(ctx, a); err != nil {
		return storeErr(err, "Activity")
	}
	return nil
}
