package agenda

import (
	"time"

	"skincare-tracker/internal/model"
)

// SetCompletion records whether t was done on day, overwriting any entry
// already held for that day. It then re-derives LastCompleted from the
// ledger so that it always points at the most recent completed day.
func SetCompletion(t *model.Task, day model.Day, completed bool, now time.Time) {
	found := false
	for i := range t.Completions {
		if t.Completions[i].Date == day {
			t.Completions[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		t.Completions = append(t.Completions, model.CompletionEntry{Date: day, Completed: completed})
	}
	t.LastCompleted = lastCompleted(t.Completions, t.LastCompleted, now)
}

// Completion reports whether t was completed on day. Days with no entry
// count as not completed.
func Completion(t *model.Task, day model.Day) bool {
	for _, c := range t.Completions {
		if c.Date == day {
			return c.Completed
		}
	}
	return false
}

func latestCompleted(entries []model.CompletionEntry) (model.Day, bool) {
	var (
		latest model.Day
		ok     bool
	)
	for _, c := range entries {
		if !c.Completed {
			continue
		}
		if !ok || latest.Before(c.Date) {
			latest, ok = c.Date, true
		}
	}
	return latest, ok
}

// lastCompleted keeps prev when it already falls on the latest completed
// day. Otherwise it stamps now for today and UTC midnight for other days.
func lastCompleted(entries []model.CompletionEntry, prev *time.Time, now time.Time) *time.Time {
	latest, ok := latestCompleted(entries)
	if !ok {
		return nil
	}
	if prev != nil && latest.Contains(*prev) {
		return prev
	}
	return stamp(latest, now)
}

func stamp(day model.Day, now time.Time) *time.Time {
	if day.Contains(now) {
		ts := now
		return &ts
	}
	ts := day.Time(time.UTC)
	return &ts
}

// CompleteRoutine marks r done on day. For a past day a later completion
// already on record is kept; completing today always stamps now.
func CompleteRoutine(r *model.Routine, day model.Day, now time.Time) {
	if r.LastCompleted != nil && !day.Contains(now) {
		prev := model.DayOf(*r.LastCompleted)
		if prev == day || day.Before(prev) {
			return
		}
	}
	r.LastCompleted = stamp(day, now)
}

// UncompleteRoutine clears r's completion when it falls on day.
func UncompleteRoutine(r *model.Routine, day model.Day) {
	if r.LastCompleted != nil && day.Contains(*r.LastCompleted) {
		r.LastCompleted = nil
	}
}
