// Package service implements the user-facing operations over the record
// store. Every operation takes the caller's identity and checks ownership
// before touching another record.
package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"skincare-tracker/internal/apperror"
	"skincare-tracker/internal/repository"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validate(v *validator.Validate, rec any) error {
	if err := v.Struct(rec); err != nil {
		return apperror.FromValidator(err)
	}
	return nil
}

// storeErr maps a store failure onto the error taxonomy.
func storeErr(err error, kind string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("%s not found", kind)
	}
	return apperror.Unexpected(err, "failed to access "+strings.ToLower(kind))
}
