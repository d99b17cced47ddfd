package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/services"
)

// respondServiceError translates service errors into API responses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, toFieldErrors(verr.Fields))
	case errors.Is(err, services.ErrInvalidTodoID):
		apierrors.InvalidID(c)
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrSuggestionsUnavailable):
		apierrors.ServiceUnavailable(c, "Todo suggestions are not configured")
	default:
		apierrors.InternalError(c, "", err)
	}
}

func toFieldErrors(fields []services.FieldError) []apierrors.FieldError {
	result := make([]apierrors.FieldError, 0, len(fields))
	for _, f := range fields {
		result = append(result, apierrors.FieldError{Field: f.Field, Message: f.Message})
	}
	return result
}
