package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

type RoutineService struct {
	routines repository.Store[model.Routine]
	products repository.Store[model.Product]
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRoutineService(routines repository.Store[model.Routine], products repository.Store[model.Product], v *validator.Validate, logger *zap.Logger) *RoutineService {
	return &RoutineService{routines: routines, products: products, validate: v, logger: logger}
}

type RoutineInput struct {
	UserID        string                `json:"userId"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Steps         []model.RoutineStep   `json:"steps"`
	Schedule      model.RoutineSchedule `json:"schedule"`
	IsActive      *bool                 `json:"isActive"`
	PreferredTime string                `json:"preferredTime"`
}

// RoutinePatch is a partial update. A non-nil Steps replaces the whole
// step list.
type RoutinePatch struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	Steps         []model.RoutineStep    `json:"steps"`
	Schedule      *model.RoutineSchedule `json:"schedule"`
	IsActive      *bool                  `json:"isActive"`
	PreferredTime *string                `json:"preferredTime"`
}

// StepView is a routine step with the referenced product, or nil when the
// step names no product or the product is gone.
type StepView struct {
	model.RoutineStep
	Product *model.Product `json:"product"`
}

type RoutineView struct {
	*model.Routine
	Steps []StepView `json:"steps"`
}

func (s *RoutineService) List(ctx context.Context, callerID, userID string) ([]RoutineView, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}
	routines, err := s.routines.Find(ctx, repository.Filter{UserID: userID, SortBy: "createdAt", Desc: true})
	if err != nil {
		return nil, storeErr(err, "Routine")
	}
	return s.expand(ctx, userID, routines)
}

func (s *RoutineService) Get(ctx context.Context, callerID, id string) (*RoutineView, error) {
	r, err := loadOwned(ctx, s.routines, "Routine", id, callerID)
	if err != nil {
		return nil, err
	}
	views, err := s.expand(ctx, r.UserID, []*model.Routine{r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RoutineService) Create(ctx context.Context, callerID string, in RoutineInput) (*model.Routine, error) {
	owner, err := claimOwner(callerID, in.UserID)
	if err != nil {
		return nil, err
	}

	r := &model.Routine{
		Document:      model.Document{UserID: owner},
		Name:          in.Name,
		Description:   in.Description,
		Steps:         model.NormalizeSteps(in.Steps),
		Schedule:      in.Schedule,
		IsActive:      true,
		PreferredTime: in.PreferredTime,
	}
	if r.Schedule == "" {
		r.Schedule = model.ScheduleBoth
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	if err := validate(s.validate, r); err != nil {
		return nil, err
	}

	created, err := s.routines.Insert(ctx, r)
	if err != nil {
		s.logger.Error("failed to insert routine", zap.String("user_id", owner), zap.Error(err))
		return nil, storeErr(err, "Routine")
	}
	return created, nil
}

func (s *RoutineService) Update(ctx context.Context, callerID, id string, patch RoutinePatch) (*model.Routine, error) {
	r, err := loadOwned(ctx, s.routines, "Routine", id, callerID)
	if err != nil {
		return nil, err
	}

	setIf(&r.Name, patch.Name)
	setIf(&r.Description, patch.Description)
	setIf(&r.Schedule, patch.Schedule)
	setIf(&r.IsActive, patch.IsActive)
	setIf(&r.PreferredTime, patch.PreferredTime)
	if patch.Steps != nil {
		r.Steps = model.NormalizeSteps(patch.Steps)
	}
	if err := validate(s.validate, r); err != nil {
		return nil, err
	}

	updated, err := s.routines.Save(ctx, r)
	if err != nil {
		return nil, storeErr(err, "Routine")
	}
	return updated, nil
}

func (s *RoutineService) Delete(ctx context.Context, callerID, id string) error {
	r, err := loadOwned(ctx, s.routines, "Routine", id, callerID)
	if err != nil {
		return err
	}
	if err := s.routines.Delete(ctx, r); err != nil {
		return storeErr(err, "Routine")
	}
	return nil
}

func (s *RoutineService) expand(ctx context.Context, userID string, routines []*model.Routine) ([]RoutineView, error) {
	products, err := s.products.Find(ctx, repository.Filter{UserID: userID})
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	index := byID(products)

	views := make([]RoutineView, 0, len(routines))
	for _, r := range routines {
		steps := make([]StepView, len(r.Steps))
		for i, st := range r.Steps {
			steps[i] = StepView{RoutineStep: st, Product: index[st.ProductID]}
		}
		views = append(views, RoutineView{Routine: r, Steps: steps})
	}
	return views, nil
}
