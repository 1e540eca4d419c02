package service

import (
	"errors"
	"fmt"
	"strings"

	"gala/app_error"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Optional distinguishes an absent field from an explicit null in partial updates.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func validationError(err error, messages map[string]string) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		if msg, ok := messages[errs[0].Field()]; ok {
			return app_error.Validation(msg)
		}
		return app_error.Validation(fmt.Sprintf("invalid value for %s", strings.ToLower(errs[0].Field())))
	}
	return app_error.Validation(err.Error())
}
