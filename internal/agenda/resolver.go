package agenda

import (
	"context"
	"fmt"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

// Resolver loads the candidate records for a user and day.
type Resolver struct {
	tasks    repository.Store[model.Task]
	routines repository.Store[model.Routine]
}

func NewResolver(tasks repository.Store[model.Task], routines repository.Store[model.Routine]) *Resolver {
	return &Resolver{tasks: tasks, routines: routines}
}

// Due returns every item due for userID on day: tasks recurring on its
// weekday followed by the user's active routines.
func (r *Resolver) Due(ctx context.Context, userID string, day model.Day) ([]Item, error) {
	tasks, err := r.tasks.Find(ctx, repository.Filter{
		UserID: userID,
		Match:  map[string]any{"daysOfWeek": []int{int(day.Weekday())}},
	})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	routines, err := r.routines.Find(ctx, repository.Filter{
		UserID: userID,
		Match:  map[string]any{"isActive": true},
		SortBy: "createdAt",
	})
	if err != nil {
		return nil, fmt.Errorf("load routines: %w", err)
	}

	items := make([]Item, 0, len(tasks)+len(routines))
	for _, t := range tasks {
		items = append(items, Standalone{Task: t})
	}
	for _, rt := range routines {
		items = append(items, FromRoutine{Routine: rt})
	}

	due := items[:0]
	for _, it := range items {
		if it.DueOn(day) {
			due = append(due, it)
		}
	}
	return due, nil
}

// Agenda is the full-day agenda for userID on day.
func (r *Resolver) Agenda(ctx context.Context, userID string, day model.Day) ([]Entry, error) {
	items, err := r.Due(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return Merge(day, items), nil
}
