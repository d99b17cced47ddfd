package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/todo-api/internal/constants"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestInternalError_HidesDetailByDefault(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InternalError(c, "", errors.New("connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, ErrCodeInternalError, body.Code)
	assert.Empty(t, body.Detail)
	assert.Len(t, c.Errors, 1)
	assert.True(t, c.IsAborted())
}

func TestInternalError_ExposesDetailWhenEnabled(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyExposeErrors, true)

	InternalError(c, "Failed to create todo", errors.New("connection refused"))

	body := decode(t, w)
	assert.Equal(t, "Failed to create todo", body.Message)
	assert.Equal(t, "connection refused", body.Detail)
}

func TestValidationFailed_ListsFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationFailed(c, []FieldError{
		{Field: "title", Message: "title is required"},
		{Field: "status", Message: "status must be one of Not Started, In Progress, Completed"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, ErrCodeValidationFailed, body.Code)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "title", body.Errors[0].Field)
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name    string
		respond func(c *gin.Context)
		status  int
		code    string
	}{
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"credentials", InvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"not found", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, ErrCodeNotFound},
		{"bad request", func(c *gin.Context) { BadRequest(c, "") }, http.StatusBadRequest, ErrCodeInvalidInput},
		{"invalid id", InvalidID, http.StatusBadRequest, ErrCodeInvalidID},
		{"exists", func(c *gin.Context) { AlreadyExists(c, "") }, http.StatusBadRequest, ErrCodeAlreadyExists},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, "") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.respond(c)

			require.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
