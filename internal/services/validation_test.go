package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
)

func TestValidateStruct_LengthLimits(t *testing.T) {
	err := validateStruct(&RegisterInput{
		Name:     strings.Repeat("a", constants.MaxNameLength+1),
		Email:    "ann@x.com",
		Password: strings.Repeat("p", constants.MinPasswordLength-1),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, fmt.Sprintf("name must be at most %d characters", constants.MaxNameLength), verr.Fields[0].Message)
	assert.Equal(t, fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength), verr.Fields[1].Message)

	err = validateStruct(&RegisterInput{
		Name:     strings.Repeat("a", constants.MinNameLength),
		Email:    "ann@x.com",
		Password: strings.Repeat("p", constants.MinPasswordLength),
	})
	assert.NoError(t, err)

	todo := models.Todo{
		Title:       strings.Repeat("t", constants.MaxTitleLength+1),
		Description: strings.Repeat("d", constants.MaxDescriptionLength+1),
		Status:      models.DefaultTodoStatus,
		Priority:    models.DefaultTodoPriority,
		OwnerID:     models.NewID(),
	}
	require.ErrorAs(t, validateStruct(&todo), &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, fmt.Sprintf("title must be at most %d characters", constants.MaxTitleLength), verr.Fields[0].Message)
	assert.Equal(t, "description", verr.Fields[1].Field)

	todo.Title = strings.Repeat("t", constants.MaxTitleLength)
	todo.Description = strings.Repeat("d", constants.MaxDescriptionLength)
	assert.NoError(t, validateStruct(&todo))
}

func TestWithFieldErrors(t *testing.T) {
	decoded := []FieldError{{Field: "dueDate", Message: "dueDate is invalid"}}

	assert.NoError(t, withFieldErrors(nil, nil))

	var verr *ValidationError
	require.ErrorAs(t, withFieldErrors(decoded, nil), &verr)
	assert.Equal(t, decoded, verr.Fields)

	err := withFieldErrors(decoded, newValidationError("title", "title is required"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{decoded[0], {Field: "title", Message: "title is required"}}, verr.Fields)

	other := errors.New("boom")
	assert.Equal(t, other, withFieldErrors(decoded, other))
}
