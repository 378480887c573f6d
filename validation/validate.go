package validation

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/container/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError is one failed rule, reported in AppError details under "fields".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their config key.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
		_ = validate.RegisterValidation("duration", validateDuration)
	})
	return validate
}

// validateDuration accepts an empty string or anything time.ParseDuration
// accepts.
func validateDuration(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.ParseDuration(s)
	return err == nil
}

// Validate checks s against its `validate` struct tags and returns an
// INVALID_ARGUMENT AppError listing every failed field.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.InvalidArgument("", err.Error())
	}

	fields := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fe := FieldError{Field: e.Field(), Message: formatValidationError(e)}
		fields = append(fields, fe)
		messages = append(messages, fe.Field+" "+fe.Message)
	}

	appErr := apperrors.InvalidArgument(fields[0].Field, strings.Join(messages, "; "))
	appErr.WithDetail("fields", fields)
	return appErr
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gtefield":
		return "must be >= " + e.Param()
	case "ltefield":
		return "must be <= " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "hostname_port":
		return "must be host:port"
	case "duration":
		return "must be a duration such as 500ms or 1h"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
