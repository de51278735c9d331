package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/model"
)

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize("u1", "u1"))
	assert.ErrorIs(t, Authorize("u1", "u2"), apperror.ErrForbidden)
	assert.ErrorIs(t, Authorize("", ""), apperror.ErrForbidden)
}

func TestClaimOwner(t *testing.T) {
	owner, err := claimOwner("u1", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = claimOwner("u1", "u2")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMutationsOnOthersRecordsAreForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.products.Create(ctx, "owner", &model.Product{Name: "Cleanser"})
	require.NoError(t, err)
	r, err := f.routines.Create(ctx, "owner", RoutineInput{Name: "AM"})
	require.NoError(t, err)
	tk, err := f.tasks.Create(ctx, "owner", TaskInput{Title: "Mask"})
	require.NoError(t, err)
	rv, err := f.reviews.Create(ctx, "owner", ReviewInput{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)

	mutations := map[string]func(caller, id string) error{
		"update product": func(c, id string) error {
			_, err := f.products.Update(ctx, c, id, ProductPatch{Name: strPtr("x")})
			return err
		},
		"delete product": func(c, id string) error { return f.products.Delete(ctx, c, id) },
		"update routine": func(c, id string) error {
			_, err := f.routines.Update(ctx, c, id, RoutinePatch{Name: strPtr("x")})
			return err
		},
		"delete routine": func(c, id string) error { return f.routines.Delete(ctx, c, id) },
		"update task": func(c, id string) error {
			_, err := f.tasks.Update(ctx, c, id, TaskPatch{Title: strPtr("x")})
			return err
		},
		"delete task": func(c, id string) error { return f.tasks.Delete(ctx, c, id) },
		"complete task": func(c, id string) error {
			_, err := f.tasks.Complete(ctx, c, id, CompletionRequest{})
			return err
		},
		"uncomplete routine": func(c, id string) error {
			_, err := f.tasks.Uncomplete(ctx, c, "routine-"+id, CompletionRequest{})
			return err
		},
		"delete review": func(c, id string) error { return f.reviews.Delete(ctx, c, id) },
	}
	ids := map[string]string{
		"update product":     p.ID,
		"delete product":     p.ID,
		"update routine":     r.ID,
		"delete routine":     r.ID,
		"update task":        tk.ID,
		"delete task":        tk.ID,
		"complete task":      tk.ID,
		"uncomplete routine": r.ID,
		"delete review":      rv.ID,
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate("intruder", ids[name])
			assert.ErrorIs(t, err, apperror.ErrForbidden)

			err = mutate("anyone", "does-not-exist")
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		})
	}
}

func TestReadingOthersDataIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.products.List(ctx, "u1", "u2")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.routines.List(ctx, "u1", "u2")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.tasks.Agenda(ctx, "u1", "u2", "2024-01-03")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.dashboard.Summary(ctx, "u1", "u2", "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.activity.List(ctx, "u1", "u2")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
