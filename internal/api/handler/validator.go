package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in messages are the JSON names.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + ": field required"
	case "email":
		return field + ": value is not a valid email address"
	case "min":
		return fmt.Sprintf("%s: ensure this value has at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s: ensure this value has at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s: ensure this value is greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s: ensure this value is less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: value is not a valid enumeration member; permitted: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed validation (%s)", field, fe.Tag())
	}
}
