package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skincare-tracker/internal/catalog"
	"skincare-tracker/internal/repository"
)

// 2024-01-03 is a Wednesday.
var fixedNow = time.Date(2024, time.January, 3, 9, 30, 0, 0, time.UTC)

type emitted struct {
	Type    string
	Payload any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *recordingEmitter) Emit(_ context.Context, eventType string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{Type: eventType, Payload: payload})
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	stores    repository.Stores
	events    *recordingEmitter
	products  *ProductService
	routines  *RoutineService
	tasks     *TaskService
	reviews   *ReviewService
	dashboard *DashboardService
	activity  *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stores := repository.NewMemoryStores()
	events := &recordingEmitter{}
	v := NewValidator()
	log := zap.NewNop()

	cat, err := catalog.Load()
	require.NoError(t, err)

	f := &fixture{stores: stores, events: events}
	f.products = NewProductService(stores.Products, events, v, log)
	f.routines = NewRoutineService(stores.Routines, stores.Products, v, log)
	f.tasks = NewTaskService(stores.Tasks, stores.Routines, events, v, log)
	f.tasks.SetClock(func() time.Time { return fixedNow })
	f.reviews = NewReviewService(stores.Reviews, events, v, log)
	f.dashboard = NewDashboardService(stores, f.tasks, f.routines, cat, DashboardOptions{SummaryLimit: 3, ActivityLimit: 5}, log)
	f.activity = NewActivityService(stores.Activities, 5)
	return f
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
