package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skincare-tracker/internal/apperror"
)

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.reviews.Create(ctx, "u1", ReviewInput{ProductID: "p1", Rating: 5, Title: "Holy grail", Comment: "Cleared my skin"})
	require.NoError(t, err)
	assert.Equal(t, "u1", r.Username)
	assert.Equal(t, 0, r.HelpfulCount)

	// no per-caller dedup
	for i := 0; i < 3; i++ {
		_, err := f.reviews.MarkHelpful(ctx, r.ID)
		require.NoError(t, err)
	}
	list, err := f.reviews.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].HelpfulCount)

	_, err = f.reviews.MarkHelpful(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, f.reviews.Delete(ctx, "u2", r.ID), apperror.ErrForbidden)
	require.NoError(t, f.reviews.Delete(ctx, "u1", r.ID))
}

func TestReviewSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, in := range []ReviewInput{
		{ProductID: "p1", Rating: 4, Title: "Great SERUM"},
		{ProductID: "p1", Rating: 2, Comment: "broke me out"},
		{ProductID: "p2", Rating: 5, Comment: "best serum ever"},
	} {
		_, err := f.reviews.Create(ctx, "u1", in)
		require.NoError(t, err)
	}

	got, err := f.reviews.List(ctx, "", "serum")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.reviews.List(ctx, "p1", "serum")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Great SERUM", got[0].Title)

	got, err = f.reviews.List(ctx, "p1", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReviewValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.reviews.Create(ctx, "u1", ReviewInput{ProductID: "p1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.reviews.Create(ctx, "u1", ReviewInput{ProductID: "p1", Rating: 9})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.reviews.Create(ctx, "u1", ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
