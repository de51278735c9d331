// Package agenda derives what a user should do on a calendar day: which
// tasks and routines are due, whether each was completed, and in what
// order to show them.
package agenda

import (
	"strings"
	"time"

	"skincare-tracker/internal/model"
)

// RoutinePrefix marks agenda identifiers that stand for a routine rather
// than a stored task.
const RoutinePrefix = "routine-"

// Item is one schedulable thing: a Standalone task or a routine projected
// into the agenda by FromRoutine.
type Item interface {
	DueOn(day model.Day) bool
	CompletedOn(day model.Day) bool
	Entry(day model.Day) Entry
	item()
}

// Entry is the display shape shared by both kinds of Item.
type Entry struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Type          model.TaskType `json:"type"`
	RoutineID     string         `json:"routineId,omitempty"`
	Schedule      string         `json:"schedule"`
	Time          string         `json:"time"`
	DaysOfWeek    []int          `json:"daysOfWeek,omitempty"`
	Date          model.Day      `json:"date"`
	Completed     bool           `json:"completed"`
	LastCompleted *time.Time     `json:"lastCompleted"`
}

type Standalone struct {
	Task *model.Task
}

func (s Standalone) DueOn(day model.Day) bool {
	return s.Task.RecursOn(day.Weekday())
}

func (s Standalone) CompletedOn(day model.Day) bool {
	return Completion(s.Task, day)
}

func (s Standalone) Entry(day model.Day) Entry {
	t := s.Task
	return Entry{
		ID:            t.ID,
		Title:         t.Title,
		Type:          t.Type,
		RoutineID:     t.RoutineID,
		Schedule:      string(t.Schedule),
		Time:          t.Time,
		DaysOfWeek:    t.DaysOfWeek,
		Date:          day,
		Completed:     s.CompletedOn(day),
		LastCompleted: t.LastCompleted,
	}
}

func (Standalone) item() {}

// FromRoutine is an active routine, due every day.
type FromRoutine struct {
	Routine *model.Routine
}

func (r FromRoutine) DueOn(model.Day) bool {
	return r.Routine.IsActive
}

func (r FromRoutine) CompletedOn(day model.Day) bool {
	return r.Routine.LastCompleted != nil && day.Contains(*r.Routine.LastCompleted)
}

func (r FromRoutine) Entry(day model.Day) Entry {
	rt := r.Routine
	return Entry{
		ID:            RoutinePrefix + rt.ID,
		Title:         rt.Name,
		Type:          model.TaskTypeRoutine,
		RoutineID:     rt.ID,
		Schedule:      string(rt.Schedule),
		Time:          rt.PreferredTime,
		Date:          day,
		Completed:     r.CompletedOn(day),
		LastCompleted: rt.LastCompleted,
	}
}

func (FromRoutine) item() {}

// Ref is a decoded agenda identifier.
type Ref struct {
	ID      string
	Routine bool
}

// ParseRef decodes an agenda identifier into the stored record it names.
func ParseRef(id string) Ref {
	if rest, ok := strings.CutPrefix(id, RoutinePrefix); ok && rest != "" {
		return Ref{ID: rest, Routine: true}
	}
	return Ref{ID: id}
}
