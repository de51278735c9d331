package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/model"
)

func TestRoutineStepsRoundTripWithDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.routines.Create(ctx, "u1", RoutineInput{
		Name: "Evening",
		Steps: []model.RoutineStep{
			{Name: "Cleanse"},
			{Name: "Tone", Category: "toner", Frequency: "weekly", Notes: "cotton pad"},
			{Name: "Moisturize"},
		},
	})
	require.NoError(t, err)
	assert.True(t, r.IsActive)
	assert.Equal(t, model.ScheduleBoth, r.Schedule)

	got, err := f.routines.Get(ctx, "u1", r.ID)
	require.NoError(t, err)
	require.Len(t, got.Steps, 3)

	names := []string{got.Steps[0].Name, got.Steps[1].Name, got.Steps[2].Name}
	assert.Equal(t, []string{"Cleanse", "Tone", "Moisturize"}, names)

	assert.Equal(t, "", got.Steps[0].Category)
	assert.Equal(t, "daily", got.Steps[0].Frequency)
	assert.Equal(t, "", got.Steps[0].Notes)
	assert.Equal(t, "weekly", got.Steps[1].Frequency)
	assert.Equal(t, "cotton pad", got.Steps[1].Notes)
}

func TestRoutineInactiveOnCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.routines.Create(ctx, "u1", RoutineInput{Name: "Paused", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, r.IsActive)

	got, err := f.tasks.Agenda(ctx, "u1", "u1", "2024-01-03")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRoutineStepListReplacement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.routines.Create(ctx, "u1", RoutineInput{
		Name:  "AM",
		Steps: []model.RoutineStep{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	})
	require.NoError(t, err)

	updated, err := f.routines.Update(ctx, "u1", r.ID, RoutinePatch{
		Steps: []model.RoutineStep{{Name: "z", Frequency: "weekly"}, {Name: "y"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Steps, 2)
	assert.Equal(t, "z", updated.Steps[0].Name)
	assert.Equal(t, "y", updated.Steps[1].Name)
	assert.Equal(t, "daily", updated.Steps[1].Frequency)

	// a patch without steps leaves them alone
	updated, err = f.routines.Update(ctx, "u1", r.ID, RoutinePatch{Description: strPtr("new")})
	require.NoError(t, err)
	assert.Len(t, updated.Steps, 2)
	assert.Equal(t, "new", updated.Description)

	_, err = f.routines.Update(ctx, "u1", r.ID, RoutinePatch{Steps: []model.RoutineStep{{Name: ""}}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRoutineViewDegradesOnDanglingProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	kept, err := f.products.Create(ctx, "u1", &model.Product{Name: "Serum"})
	require.NoError(t, err)
	gone, err := f.products.Create(ctx, "u1", &model.Product{Name: "Old toner"})
	require.NoError(t, err)

	r, err := f.routines.Create(ctx, "u1", RoutineInput{
		Name: "AM",
		Steps: []model.RoutineStep{
			{Name: "Serum", ProductID: kept.ID},
			{Name: "Toner", ProductID: gone.ID},
			{Name: "Water"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, "u1", gone.ID))

	views, err := f.routines.List(ctx, "u1", "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, r.ID, views[0].ID)

	steps := views[0].Steps
	require.Len(t, steps, 3)
	require.NotNil(t, steps[0].Product)
	assert.Equal(t, "Serum", steps[0].Product.Name)
	assert.Nil(t, steps[1].Product)
	assert.Equal(t, gone.ID, steps[1].ProductID)
	assert.Nil(t, steps[2].Product)
}

func TestRoutineValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.routines.Create(ctx, "u1", RoutineInput{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.routines.Create(ctx, "u1", RoutineInput{Name: "x", Schedule: "noon"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.routines.Create(ctx, "u1", RoutineInput{UserID: "u2", Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
