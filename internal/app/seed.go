package app

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/service"
)

//go:embed seed.yaml
var seedYAML []byte

type seedData struct {
	Products []struct {
		Name               string `yaml:"name"`
		Brand              string `yaml:"brand"`
		Category           string `yaml:"category"`
		Size               string `yaml:"size"`
		PeriodAfterOpening int    `yaml:"period_after_opening"`
		Rating             int    `yaml:"rating"`
		Notes              string `yaml:"notes"`
	} `yaml:"products"`
	Routines []struct {
		Name          string                `yaml:"name"`
		Description   string                `yaml:"description"`
		Schedule      model.RoutineSchedule `yaml:"schedule"`
		PreferredTime string                `yaml:"preferred_time"`
		Steps         []struct {
			Name    string `yaml:"name"`
			Product string `yaml:"product"`
			Notes   string `yaml:"notes"`
		} `yaml:"steps"`
	} `yaml:"routines"`
	Tasks []struct {
		Title      string             `yaml:"title"`
		Schedule   model.TaskSchedule `yaml:"schedule"`
		Time       string             `yaml:"time"`
		DaysOfWeek []int              `yaml:"days_of_week"`
	} `yaml:"tasks"`
	Reviews []struct {
		Product string `yaml:"product"`
		Rating  int    `yaml:"rating"`
		Title   string `yaml:"title"`
		Comment string `yaml:"comment"`
	} `yaml:"reviews"`
}

// SeedCounts reports how many records Seed created per kind.
type SeedCounts struct {
	Products, Routines, Tasks, Reviews int
}

// Seed inserts a demo data set owned by userID through the services, so
// the usual defaults and validation apply. Each routine also gets a
// routine-linked task.
func Seed(ctx context.Context, svc *Services, userID string, log *zap.Logger) (SeedCounts, error) {
	var counts SeedCounts
	if userID == "" {
		return counts, fmt.Errorf("seed user id is required")
	}

	var data seedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return counts, fmt.Errorf("parse seed data: %w", err)
	}

	productIDs := make(map[string]string)
	for _, p := range data.Products {
		created, err := svc.Products.Create(ctx, userID, &model.Product{
			Name:               p.Name,
			Brand:              p.Brand,
			Category:           p.Category,
			Size:               p.Size,
			PeriodAfterOpening: p.PeriodAfterOpening,
			Rating:             p.Rating,
			Notes:              p.Notes,
		})
		if err != nil {
			return counts, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		productIDs[p.Name] = created.ID
		counts.Products++
	}

	for _, r := range data.Routines {
		steps := make([]model.RoutineStep, 0, len(r.Steps))
		for _, st := range r.Steps {
			steps = append(steps, model.RoutineStep{
				Name:      st.Name,
				Notes:     st.Notes,
				ProductID: productIDs[st.Product],
			})
		}
		routine, err := svc.Routines.Create(ctx, userID, service.RoutineInput{
			Name:          r.Name,
			Description:   r.Description,
			Steps:         steps,
			Schedule:      r.Schedule,
			PreferredTime: r.PreferredTime,
		})
		if err != nil {
			return counts, fmt.Errorf("seed routine %q: %w", r.Name, err)
		}
		counts.Routines++

		if _, err := svc.Tasks.Create(ctx, userID, service.TaskInput{
			Type:      model.TaskTypeRoutine,
			RoutineID: routine.ID,
			Time:      r.PreferredTime,
		}); err != nil {
			return counts, fmt.Errorf("seed routine task %q: %w", r.Name, err)
		}
		counts.Tasks++
	}

	for _, t := range data.Tasks {
		if _, err := svc.Tasks.Create(ctx, userID, service.TaskInput{
			Title:      t.Title,
			Schedule:   t.Schedule,
			Time:       t.Time,
			DaysOfWeek: t.DaysOfWeek,
		}); err != nil {
			return counts, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
		counts.Tasks++
	}

	for _, rv := range data.Reviews {
		productID, ok := productIDs[rv.Product]
		if !ok {
			return counts, fmt.Errorf("seed review references unknown product %q", rv.Product)
		}
		if _, err := svc.Reviews.Create(ctx, userID, service.ReviewInput{
			ProductID: productID,
			Rating:    rv.Rating,
			Title:     rv.Title,
			Comment:   rv.Comment,
		}); err != nil {
			return counts, fmt.Errorf("seed review %q: %w", rv.Title, err)
		}
		counts.Reviews++
	}

	log.Info("Seeded demo data",
		zap.String("user_id", userID),
		zap.Int("products", counts.Products),
		zap.Int("routines", counts.Routines),
		zap.Int("tasks", counts.Tasks),
	)
	return counts, nil
}
