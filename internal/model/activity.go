package model

import "time"

type ActivityType string

const (
	ActivityRoutineCompleted ActivityType = "routine_completed"
	ActivityTaskCompleted    ActivityType = "task_completed"
	ActivityProductAdded     ActivityType = "product_added"
	ActivityReviewPosted     ActivityType = "review_posted"
)

// Activity is the dashboard feed entry shape. The dashboard derives it
// from routines and products; the worker also persists one per event.
type Activity struct {
	Document
	EventID     string       `json:"eventId,omitempty"`
	Type        ActivityType `json:"type"`
	SubjectID   string       `json:"subjectId"`
	SubjectName string       `json:"subjectName"`
	Timestamp   time.Time    `json:"timestamp"`
}
