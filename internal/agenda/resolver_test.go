package agenda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

func newResolver(t *testing.T) (*Resolver, repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	return NewResolver(stores.Tasks, stores.Routines), stores
}

func TestResolverHonoursWeekdays(t *testing.T) {
	ctx := context.Background()
	r, stores := newResolver(t)

	task, err := stores.Tasks.Insert(ctx, &model.Task{
		Document:   model.Document{UserID: "u1"},
		Title:      "Exfoliate",
		Type:       model.TaskTypeStandalone,
		Schedule:   model.TaskWeekly,
		Time:       "08:00",
		DaysOfWeek: []int{1, 3, 5},
	})
	require.NoError(t, err)

	got, err := r.Agenda(ctx, "u1", tuesday)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.Agenda(ctx, "u1", wednesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].ID)
	assert.False(t, got[0].Completed)

	SetCompletion(task, wednesday, true, at(wednesday, 8))
	_, err = stores.Tasks.Save(ctx, task)
	require.NoError(t, err)

	got, err = r.Agenda(ctx, "u1", wednesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)
}

func TestResolverSkipsInactiveRoutines(t *testing.T) {
	ctx := context.Background()
	r, stores := newResolver(t)

	_, err := stores.Routines.Insert(ctx, &model.Routine{Document: model.Document{UserID: "u1"}, Name: "Paused", IsActive: false})
	require.NoError(t, err)
	_, err = stores.Routines.Insert(ctx, &model.Routine{Document: model.Document{UserID: "u1"}, Name: "Daily", IsActive: true})
	require.NoError(t, err)

	for _, day := range []model.Day{monday, tuesday, wednesday} {
		got, err := r.Agenda(ctx, "u1", day)
		require.NoError(t, err)
		assert.Equal(t, []string{"Daily"}, titles(got))
	}
}

func TestResolverRoutineCompletionFollowsLastCompleted(t *testing.T) {
	ctx := context.Background()
	r, stores := newResolver(t)

	yesterday := at(tuesday, 20)
	rt, err := stores.Routines.Insert(ctx, &model.Routine{
		Document:      model.Document{UserID: "u1"},
		Name:          "Morning",
		IsActive:      true,
		LastCompleted: &yesterday,
	})
	require.NoError(t, err)

	got, err := r.Agenda(ctx, "u1", wednesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Completed)

	CompleteRoutine(rt, wednesday, at(wednesday, 7))
	_, err = stores.Routines.Save(ctx, rt)
	require.NoError(t, err)

	got, err = r.Agenda(ctx, "u1", wednesday)
	require.NoError(t, err)
	assert.True(t, got[0].Completed)
	assert.Equal(t, wednesday, model.DayOf(*got[0].LastCompleted))
}

func TestResolverScopesToOwner(t *testing.T) {
	ctx := context.Background()
	r, stores := newResolver(t)

	_, err := stores.Tasks.Insert(ctx, &model.Task{Document: model.Document{UserID: "u2"}, Title: "not mine", DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6}})
	require.NoError(t, err)

	got, err := r.Agenda(ctx, "u1", wednesday)
	require.NoError(t, err)
	assert.Empty(t, got)
}
