package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"smartdraft-be/pkg/errs"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds every violation into
// one malformed-request error so clients get the full list at once.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return errs.Wrap(errs.KindMalformedRequest, "invalid request", err)
	}

	messages := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		messages = append(messages, fmt.Sprintf("field %s failed on %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return errs.New(errs.KindMalformedRequest, strings.Join(messages, "; "))
}
