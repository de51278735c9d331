package model

import "time"

type RoutineSchedule string

const (
	ScheduleMorning RoutineSchedule = "morning"
	ScheduleEvening RoutineSchedule = "evening"
	ScheduleBoth    RoutineSchedule = "both"
)

const DefaultStepFrequency = "daily"

type Routine struct {
	Document
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Steps       []RoutineStep   `json:"steps" validate:"dive"`
	Schedule    RoutineSchedule `json:"schedule" validate:"oneof=morning evening both"`
	IsActive    bool            `json:"isActive"`
	// PreferredTime places the routine in the agenda ("HH:MM"); empty sorts last.
	PreferredTime string     `json:"preferredTime,omitempty"`
	LastCompleted *time.Time `json:"lastCompleted"`
}

// RoutineStep is one product application. ProductID is a weak reference:
// the product may have been deleted since.
type RoutineStep struct {
	Name      string `json:"name" validate:"required"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
	ProductID string `json:"productId,omitempty"`
}

// NormalizeSteps returns a copy of steps with defaults filled in, in the
// given order.
func NormalizeSteps(steps []RoutineStep) []RoutineStep {
	out := make([]RoutineStep, len(steps))
	for i, s := range steps {
		if s.Frequency == "" {
			s.Frequency = DefaultStepFrequency
		}
		out[i] = s
	}
	return out
}
