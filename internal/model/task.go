package model

import "time"

type TaskType string

const (
	TaskTypeStandalone TaskType = "task"
	TaskTypeRoutine    TaskType = "routine"
)

type TaskSchedule string

const (
	TaskDaily   TaskSchedule = "daily"
	TaskWeekly  TaskSchedule = "weekly"
	TaskMonthly TaskSchedule = "monthly"
	TaskCustom  TaskSchedule = "custom"
)

type Task struct {
	Document
	Title     string       `json:"title" validate:"required"`
	Type      TaskType     `json:"type" validate:"oneof=task routine"`
	RoutineID string       `json:"routineId,omitempty"`
	Schedule  TaskSchedule `json:"schedule" validate:"oneof=daily weekly monthly custom"`
	// Time is a free-form label ("HH:MM" by convention) used only for ordering.
	Time          string            `json:"time,omitempty"`
	DaysOfWeek    []int             `json:"daysOfWeek" validate:"dive,min=0,max=6"`
	Completions   []CompletionEntry `json:"completions"`
	LastCompleted *time.Time        `json:"lastCompleted"`
}

// CompletionEntry records whether a task was done on one calendar day.
// A task holds at most one entry per day.
type CompletionEntry struct {
	Date      Day  `json:"date"`
	Completed bool `json:"completed"`
}

// RecursOn reports whether wd is one of the task's weekdays.
func (t *Task) RecursOn(wd time.Weekday) bool {
	for _, d := range t.DaysOfWeek {
		if d == int(wd) {
			return true
		}
	}
	return false
}
