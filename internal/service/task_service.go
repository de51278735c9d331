package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	mqcontracts "skincare-tracker/contracts/mq"
	"skincare-tracker/internal/agenda"
	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
	"skincare-tracker/pkg/metrics"
)

var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

type TaskService struct {
	tasks    repository.Store[model.Task]
	routines repository.Store[model.Routine]
	resolver *agenda.Resolver
	events   Emitter
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewTaskService(tasks repository.Store[model.Task], routines repository.Store[model.Routine], events Emitter, v *validator.Validate, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		routines: routines,
		resolver: agenda.NewResolver(tasks, routines),
		events:   events,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for "today" and completion stamps.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

type TaskInput struct {
	UserID     string             `json:"userId"`
	Title      string             `json:"title"`
	Type       model.TaskType     `json:"type"`
	RoutineID  string             `json:"routineId"`
	Schedule   model.TaskSchedule `json:"schedule"`
	Time       string             `json:"time"`
	DaysOfWeek []int              `json:"daysOfWeek"`
}

type TaskPatch struct {
	Title      *string             `json:"title"`
	Schedule   *model.TaskSchedule `json:"schedule"`
	Time       *string             `json:"time"`
	DaysOfWeek []int               `json:"daysOfWeek"`
}

// CompletionRequest names the day to mark. An empty Date means today.
type CompletionRequest struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`
}

// Agenda returns the merged agenda for userID on date (YYYY-MM-DD).
func (s *TaskService) Agenda(ctx context.Context, callerID, userID, date string) ([]agenda.Entry, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}
	day, err := model.ParseDay(date)
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	entries, err := s.resolver.Agenda(ctx, userID, day)
	if err != nil {
		return nil, apperror.Unexpected(err, "failed to resolve agenda")
	}
	return entries, nil
}

func (s *TaskService) today() model.Day {
	return model.DayOf(s.now())
}

// Today is the merged agenda for the current day.
func (s *TaskService) Today(ctx context.Context, userID string) ([]agenda.Entry, error) {
	entries, err := s.resolver.Agenda(ctx, userID, s.today())
	if err != nil {
		return nil, apperror.Unexpected(err, "failed to resolve agenda")
	}
	return entries, nil
}

func (s *TaskService) List(ctx context.Context, callerID, userID string) ([]*model.Task, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.Find(ctx, repository.Filter{UserID: userID, SortBy: "time"})
	if err != nil {
		return nil, storeErr(err, "Task")
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, callerID string, in TaskInput) (*model.Task, error) {
	owner, err := claimOwner(callerID, in.UserID)
	if err != nil {
		return nil, err
	}

	t := &model.Task{
		Document:    model.Document{UserID: owner},
		Title:       in.Title,
		Type:        in.Type,
		RoutineID:   in.RoutineID,
		Schedule:    in.Schedule,
		Time:        in.Time,
		DaysOfWeek:  in.DaysOfWeek,
		Completions: []model.CompletionEntry{},
	}
	if t.Type == "" {
		t.Type = model.TaskTypeStandalone
	}
	if t.Schedule == "" {
		t.Schedule = model.TaskDaily
	}
	if t.DaysOfWeek == nil && t.Schedule == model.TaskDaily {
		t.DaysOfWeek = append([]int(nil), everyDay...)
	}

	if t.Type == model.TaskTypeRoutine && t.RoutineID != "" {
		r, err := s.routines.FindByID(ctx, t.RoutineID)
		if err != nil {
			return nil, storeErr(err, "Routine")
		}
		// another user's routine is reported as absent
		if r.UserID != owner {
			return nil, apperror.NotFound("Routine not found")
		}
		if t.Title == "" {
			t.Title = r.Name
		}
	}

	if err := validate(s.validate, t); err != nil {
		return nil, err
	}
	created, err := s.tasks.Insert(ctx, t)
	if err != nil {
		s.logger.Error("failed to insert task", zap.String("user_id", owner), zap.Error(err))
		return nil, storeErr(err, "Task")
	}
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, callerID, id string, patch TaskPatch) (*model.Task, error) {
	t, err := loadOwned(ctx, s.tasks, "Task", id, callerID)
	if err != nil {
		return nil, err
	}
	setIf(&t.Title, patch.Title)
	setIf(&t.Schedule, patch.Schedule)
	setIf(&t.Time, patch.Time)
	if patch.DaysOfWeek != nil {
		t.DaysOfWeek = patch.DaysOfWeek
	}
	if err := validate(s.validate, t); err != nil {
		return nil, err
	}
	updated, err := s.tasks.Save(ctx, t)
	if err != nil {
		return nil, storeErr(err, "Task")
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, callerID, id string) error {
	t, err := loadOwned(ctx, s.tasks, "Task", id, callerID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, t); err != nil {
		return storeErr(err, "Task")
	}
	return nil
}

func (s *TaskService) Complete(ctx context.Context, callerID, taskID string, req CompletionRequest) (agenda.Entry, error) {
	return s.setCompleted(ctx, callerID, taskID, req, true)
}

func (s *TaskService) Uncomplete(ctx context.Context, callerID, taskID string, req CompletionRequest) (agenda.Entry, error) {
	return s.setCompleted(ctx, callerID, taskID, req, false)
}

func (s *TaskService) setCompleted(ctx context.Context, callerID, taskID string, req CompletionRequest, completed bool) (agenda.Entry, error) {
	now := s.now()
	day := model.DayOf(now)
	if req.Date != "" {
		d, err := model.ParseDay(req.Date)
		if err != nil {
			return agenda.Entry{}, apperror.Validation("%s", err.Error())
		}
		if day.Before(d) {
			return agenda.Entry{}, apperror.Validation("date %s is in the future", d)
		}
		day = d
	}

	action := "uncomplete"
	if completed {
		action = "complete"
	}

	ref := agenda.ParseRef(taskID)
	if ref.Routine {
		r, err := loadOwned(ctx, s.routines, "Routine", ref.ID, callerID)
		if err != nil {
			return agenda.Entry{}, err
		}
		if _, err := claimOwner(callerID, req.UserID); err != nil {
			return agenda.Entry{}, err
		}
		if completed {
			agenda.CompleteRoutine(r, day, now)
		} else {
			agenda.UncompleteRoutine(r, day)
		}
		if _, err := s.routines.Save(ctx, r); err != nil {
			return agenda.Entry{}, storeErr(err, "Routine")
		}
		metrics.IncrementCompletionToggle("routine", action)
		if completed {
			s.events.Emit(ctx, mqcontracts.EventRoutineCompleted, mqcontracts.RoutineCompletedPayload{
				UserID:      r.UserID,
				RoutineID:   r.ID,
				Name:        r.Name,
				Date:        day.String(),
				CompletedAt: now,
			})
		}
		return agenda.FromRoutine{Routine: r}.Entry(day), nil
	}

	t, err := loadOwned(ctx, s.tasks, "Task", ref.ID, callerID)
	if err != nil {
		return agenda.Entry{}, err
	}
	if _, err := claimOwner(callerID, req.UserID); err != nil {
		return agenda.Entry{}, err
	}
	agenda.SetCompletion(t, day, completed, now)
	if _, err := s.tasks.Save(ctx, t); err != nil {
		return agenda.Entry{}, storeErr(err, "Task")
	}
	metrics.IncrementCompletionToggle("task", action)
	if completed {
		s.events.Emit(ctx, mqcontracts.EventTaskCompleted, mqcontracts.TaskCompletedPayload{
			UserID:      t.UserID,
			TaskID:      t.ID,
			Title:       t.Title,
			Date:        day.String(),
			CompletedAt: now,
		})
	}
	return agenda.Standalone{Task: t}.Entry(day), nil
}
