package mq

import "time"

// Event types published by the API. Each is routed as "activity.<type>".
const (
	EventProductAdded     = "product.added"
	EventRoutineCompleted = "routine.completed"
	EventTaskCompleted    = "task.completed"
	EventReviewPosted     = "review.posted"
)

type ProductAddedPayload struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	AddedAt   time.Time `json:"added_at"`
}

type RoutineCompletedPayload struct {
	UserID      string    `json:"user_id"`
	RoutineID   string    `json:"routine_id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CompletedAt time.Time `json:"completed_at"`
}

type TaskCompletedPayload struct {
	UserID      string    `json:"user_id"`
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	CompletedAt time.Time `json:"completed_at"`
}

type ReviewPostedPayload struct {
	UserID    string    `json:"user_id"`
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	PostedAt  time.Time `json:"posted_at"`
}
