package services

import (
	stderrors "errors"
	"reflect"
	"strings"

	"food-reels-server/utils/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requireFields validates s and turns missing fields into one 400 listing them.
func requireFields(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Internal("Validation failed", err)
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	return errors.Validation("All fields are required", "missing: "+strings.Join(names, ", "))
}

func oneOf(value string, allowed []string) bool {
	return validate.Var(value, "oneof="+strings.Join(allowed, " ")) == nil
}
