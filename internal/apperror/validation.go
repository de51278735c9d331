package apperror

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var tagMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gte":      "must be greater than or equal to %s",
	"oneof":    "must be one of: %s",
}

// FromValidator converts validator errors into a Validation error with one
// {field: message} entry per failing field. Other errors pass through.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	details := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s is invalid", fe.Field())
		if tmpl, ok := tagMessages[fe.Tag()]; ok {
			if fe.Param() != "" {
				msg = fmt.Sprintf(tmpl, fe.Param())
			} else {
				msg = tmpl
			}
		}
		details = append(details, map[string]string{fe.Namespace(): msg})
	}

	return &Error{
		Kind:    KindValidation,
		Msg:     "validation failed",
		Details: details,
		Err:     err,
	}
}
