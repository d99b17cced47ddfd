package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/todo-api/internal/constants"
)

func paginationFor(query string) (PaginationParams, bool) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/todos"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	_, ok := paginationFor("")
	assert.False(t, ok)

	params, ok := paginationFor("?page=3&limit=10")
	assert.True(t, ok)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10}, params)

	params, ok = paginationFor("?page=2")
	assert.True(t, ok)
	assert.Equal(t, PaginationParams{Page: 2, Limit: constants.DefaultPageSize}, params)

	params, _ = paginationFor("?page=-1&limit=1000")
	assert.Equal(t, PaginationParams{Page: 1, Limit: constants.DefaultPageSize}, params)

	params, _ = paginationFor("?limit=abc")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
}
