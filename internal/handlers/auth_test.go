package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/dto"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
)

type authTestEnv struct {
	handler     *AuthHandler
	authService *services.AuthService
	tokens      *auth.TokenManager
}

func newTestRepositories(t *testing.T) repository.Repositories {
	t.Helper()

	db, err := database.OpenGorm(sqlite.Open(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.MigrateSQL(db))
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return repository.New(&database.Connection{Driver: database.DriverSQLite, SQL: db})
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := newTestRepositories(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := services.NewAuthService(repos.Users, auth.NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop())

	return authTestEnv{
		handler:     NewAuthHandler(authService),
		authService: authService,
		tokens:      tokens,
	}
}

func jsonContext(method, url string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	c.Request = httptest.NewRequest(method, url, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	c, w := jsonContext(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ann",
		"email":    "ann@x.com",
		"password": "secret1",
	})
	env.handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, "ann@x.com", response.User.Email)

	identity, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, identity.UserID)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	env.handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(context.Background(), services.RegisterInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	c, w := jsonContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ann@x.com",
		"password": "secret1",
	})
	env.handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Ann", response.User.Name)
	require.NotEmpty(t, response.Token)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	c, w := jsonContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@x.com",
		"password": "secret1",
	})
	env.handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	result, err := env.authService.Register(context.Background(), services.RegisterInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	c, w := jsonContext(http.MethodGet, "/api/auth/me", nil)
	env.handler.GetCurrentUser(c, auth.Identity{UserID: result.User.ID, Name: result.User.Name})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, result.User.ID, response.User.ID)
	require.NotContains(t, w.Body.String(), "password")
}
