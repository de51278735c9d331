package service

import (
	"context"

	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/repository"
)

// Authorize allows an operation only when the caller owns the record.
func Authorize(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return apperror.Forbidden("Not authorized")
	}
	return nil
}

// claimOwner resolves the owner of a record about to be created. An
// explicit owner must be the caller.
func claimOwner(callerID, requested string) (string, error) {
	if requested != "" && requested != callerID {
		return "", apperror.Forbidden("Not authorized")
	}
	if callerID == "" {
		return "", apperror.Forbidden("Not authorized")
	}
	return callerID, nil
}

// loadOwned fetches a record and checks the caller owns it. A missing
// record is NotFound whoever asks; a present one owned by someone else
// is Forbidden.
func loadOwned[T any, P repository.Record[T]](ctx context.Context, store repository.Store[T], kind, id, callerID string) (*T, error) {
	rec, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, kind)
	}
	if err := Authorize(callerID, P(rec).Doc().UserID); err != nil {
		return nil, err
	}
	return rec, nil
}
