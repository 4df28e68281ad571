package course

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := ParseClock(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("parity", func(fl validator.FieldLevel) bool {
			_, err := ParseParity(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("endafter", func(fl validator.FieldLevel) bool {
			other := fl.Parent().FieldByName(fl.Param())
			if !other.IsValid() {
				return false
			}
			start, err := ParseClock(other.String())
			if err != nil {
				return false
			}
			end, err := ParseClock(fl.Field().String())
			return err == nil && end > start
		})
		validate = v
	})
	return validate
}

// Validate checks a course before it is stored.
func Validate(c Course) error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid course: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Course.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "clock":
		return fmt.Sprintf("%s %q is not HH:MM", field, fe.Value())
	case "endafter":
		return field + " must be later than start"
	case "parity":
		return fmt.Sprintf("%s %q must be even, odd or empty", field, fe.Value())
	case "gte", "lte", "max":
		return fmt.Sprintf("%s is out of range (%s %s)", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
