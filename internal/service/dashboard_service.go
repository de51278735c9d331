package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"skincare-tracker/internal/agenda"
	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/catalog"
	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

type DashboardService struct {
	products      repository.Store[model.Product]
	routines      repository.Store[model.Routine]
	tasks         *TaskService
	routineSvc    *RoutineService
	catalog       *catalog.Catalog
	summaryLimit  int
	activityLimit int
	logger        *zap.Logger
}

type DashboardOptions struct {
	SummaryLimit  int
	ActivityLimit int
}

func NewDashboardService(
	stores repository.Stores,
	tasks *TaskService,
	routines *RoutineService,
	cat *catalog.Catalog,
	opts DashboardOptions,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		products:      stores.Products,
		routines:      stores.Routines,
		tasks:         tasks,
		routineSvc:    routines,
		catalog:       cat,
		summaryLimit:  opts.SummaryLimit,
		activityLimit: opts.ActivityLimit,
		logger:        logger,
	}
}

type Dashboard struct {
	RoutinesCount     int                  `json:"routinesCount"`
	ProductsCount     int                  `json:"productsCount"`
	TasksCount        int                  `json:"tasksCount"`
	CompletedCount    int                  `json:"completedCount"`
	Activities        []model.Activity     `json:"activities"`
	UpcomingTasks     []agenda.Entry       `json:"upcomingTasks"`
	SuggestedRoutines []catalog.Suggestion `json:"suggestedRoutines"`
}

type SuggestedRoutineRequest struct {
	UserID      string         `json:"userId"`
	RoutineName string         `json:"routineName"`
	Steps       []catalog.Step `json:"steps"`
}

// Summary builds userID's dashboard for today.
func (s *DashboardService) Summary(ctx context.Context, callerID, userID, skinType string) (*Dashboard, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}

	routines, err := s.routines.Find(ctx, repository.Filter{UserID: userID, SortBy: "createdAt", Desc: true})
	if err != nil {
		return nil, storeErr(err, "Routine")
	}
	products, err := s.products.Find(ctx, repository.Filter{UserID: userID, SortBy: "createdAt", Desc: true})
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	entries, err := s.tasks.Today(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.tasks.today()
	completed := 0
	for _, r := range routines {
		if (agenda.FromRoutine{Routine: r}).CompletedOn(today) {
			completed++
		}
	}

	return &Dashboard{
		RoutinesCount:     len(routines),
		ProductsCount:     len(products),
		TasksCount:        len(entries),
		CompletedCount:    completed,
		Activities:        recentActivity(userID, routines, products, s.activityLimit),
		UpcomingTasks:     agenda.Summary(entries, s.summaryLimit),
		SuggestedRoutines: s.catalog.For(skinType),
	}, nil
}

// recentActivity projects routine completions and product additions into
// a feed, newest first.
func recentActivity(userID string, routines []*model.Routine, products []*model.Product, limit int) []model.Activity {
	feed := make([]model.Activity, 0, len(routines)+len(products))
	for _, r := range routines {
		if r.LastCompleted == nil {
			continue
		}
		feed = append(feed, model.Activity{
			Document:    model.Document{ID: agenda.RoutinePrefix + r.ID, UserID: userID, CreatedAt: *r.LastCompleted},
			Type:        model.ActivityRoutineCompleted,
			SubjectID:   r.ID,
			SubjectName: r.Name,
			Timestamp:   *r.LastCompleted,
		})
	}
	for _, p := range products {
		feed = append(feed, model.Activity{
			Document:    model.Document{ID: "product-" + p.ID, UserID: userID, CreatedAt: p.CreatedAt},
			Type:        model.ActivityProductAdded,
			SubjectID:   p.ID,
			SubjectName: p.Name,
			Timestamp:   p.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if limit >= 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

// AddSuggestedRoutine creates a routine from a suggestion. Steps in the
// request win; without them the catalog entry of that name is used.
func (s *DashboardService) AddSuggestedRoutine(ctx context.Context, callerID string, req SuggestedRoutineRequest) (*model.Routine, error) {
	name := strings.TrimSpace(req.RoutineName)
	if name == "" {
		return nil, apperror.Validation("routineName is required")
	}
	steps := req.Steps
	if len(steps) == 0 {
		sugg, ok := s.catalog.Find(name)
		if !ok {
			return nil, apperror.NotFound("Suggested routine not found")
		}
		steps = sugg.Steps
	}

	in := RoutineInput{
		UserID:      req.UserID,
		Name:        name,
		Description: "Added from suggested " + name + " routine",
		Schedule:    scheduleFromName(name),
		Steps:       make([]model.RoutineStep, len(steps)),
	}
	for i, st := range steps {
		in.Steps[i] = model.RoutineStep{Name: st.Name, Notes: st.Description, Frequency: model.DefaultStepFrequency}
	}

	r, err := s.routineSvc.Create(ctx, callerID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("suggested routine added", zap.String("user_id", r.UserID), zap.String("routine", name))
	return r, nil
}

func scheduleFromName(name string) model.RoutineSchedule {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "morning"):
		return model.ScheduleMorning
	case strings.Contains(lower, "evening"):
		return model.ScheduleEvening
	default:
		return model.ScheduleBoth
	}
}
