package services

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violated constraint of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// withFieldErrors prepends field errors collected while decoding a request
// to the result of validating the decoded value.
func withFieldErrors(decoded []FieldError, err error) error {
	if len(decoded) == 0 {
		return err
	}
	if err == nil {
		return &ValidationError{Fields: decoded}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &ValidationError{Fields: append(slices.Clone(decoded), verr.Fields...)}
	}
	return err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("user_name", fmt.Sprintf("min=%d,max=%d", constants.MinNameLength, constants.MaxNameLength))
	v.RegisterAlias("user_password", fmt.Sprintf("min=%d", constants.MinPasswordLength))
	v.RegisterAlias("todo_title", fmt.Sprintf("max=%d", constants.MaxTitleLength))
	v.RegisterAlias("todo_description", fmt.Sprintf("max=%d", constants.MaxDescriptionLength))
	_ = v.RegisterValidation("todo_status", func(fl validator.FieldLevel) bool {
		return models.TodoStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("todo_priority", func(fl validator.FieldLevel) bool {
		return models.TodoPriority(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the validate tags of s and converts failures into a
// *ValidationError listing every field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "todo_status":
		return fmt.Sprintf("status must be one of %s, %s, %s",
			models.TodoStatusNotStarted, models.TodoStatusInProgress, models.TodoStatusCompleted)
	case "todo_priority":
		return fmt.Sprintf("priority must be one of %s, %s, %s",
			models.TodoPriorityLow, models.TodoPriorityMedium, models.TodoPriorityHigh)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
