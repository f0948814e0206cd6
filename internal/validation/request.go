package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/go-playground/validator/v10"
)

// Error is a request validation failure. Message is safe to show to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "goalcategory", func(fl validator.FieldLevel) bool {
		return model.ValidGoalCategory(fl.Field().String())
	})
	mustRegister(v, "goalunit", func(fl validator.FieldLevel) bool {
		unit := fl.Field().String()
		for _, u := range model.GoalUnits {
			if u == unit {
				return true
			}
		}
		return false
	})
	mustRegister(v, "day", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates s against its `validate` tags and returns the first failure as *Error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &Error{Field: fieldPath(fe), Message: message(fe)}
}

// fieldPath drops the top-level struct name: "WorkoutInput.exercises[0].name" -> "exercises[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must contain at least " + fe.Param() + " item(s)"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "goalcategory":
		return field + " must be one of: " + strings.Join(model.GoalCategories, ", ")
	case "goalunit":
		return field + " must be one of: " + strings.Join(model.GoalUnits, ", ")
	case "day":
		return field + " must be a date (YYYY-MM-DD or RFC 3339)"
	default:
		return field + " is invalid"
	}
}
