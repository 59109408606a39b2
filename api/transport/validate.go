package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
)

const locBody = "body"

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

// DecodeJSON unmarshals body into dst and validates it. Failures are returned
// as a domain validation error listing every offending field.
func DecodeJSON(body []byte, dst interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.NewValidationError(domain.FieldError{
			Loc:  []string{locBody},
			Msg:  "Field required",
			Type: "missing",
		})
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return decodeError(err)
	}
	return Validate(dst)
}

// Validate runs the struct tags of v.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.WrapError(domain.ErrCodeInternal, "validate request", err)
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError(fe))
	}
	return domain.NewValidationError(fields...)
}

// PathError reports a path parameter that failed to parse.
func PathError(name, msg, typ string) error {
	return domain.NewValidationError(domain.FieldError{
		Loc:  []string{"path", name},
		Msg:  msg,
		Type: typ,
	})
}

func fieldError(fe validator.FieldError) domain.FieldError {
	out := domain.FieldError{Loc: []string{locBody, fe.Field()}}
	switch fe.Tag() {
	case "required":
		out.Type = "missing"
		out.Msg = "Field required"
	case "min":
		out.Type = "string_too_short"
		out.Msg = fmt.Sprintf("String should have at least %s characters", fe.Param())
	case "max":
		out.Type = "string_too_long"
		out.Msg = fmt.Sprintf("String should have at most %s characters", fe.Param())
	default:
		out.Type = "value_error"
		out.Msg = fmt.Sprintf("Value failed %q check", fe.Tag())
	}
	return out
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []string{locBody}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return domain.NewValidationError(domain.FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.Kind()),
			Type: "type_error",
		})
	}
	return domain.NewValidationError(domain.FieldError{
		Loc:  []string{locBody},
		Msg:  "JSON decode error",
		Type: "json_invalid",
	})
}
