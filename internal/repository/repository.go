package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
)

var (
	// ErrNotFound is returned when a record is absent or not owned by the caller.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEmail is returned when the unique email constraint is violated.
	ErrDuplicateEmail = errors.New("repository: email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create stores a new user, assigning its ID when empty
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID; the password digest is not loaded
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email including the password digest
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TodoRepository defines the interface for todo data access.
// Every lookup is scoped by owner.
type TodoRepository interface {
	// Create stores a new todo, assigning its ID when empty
	Create(ctx context.Context, todo *models.Todo) error

	// ListByOwner lists an owner's todos, newest first
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Todo, int64, error)

	// FindOwned finds a todo by ID and owner
	FindOwned(ctx context.Context, id, ownerID string) (*models.Todo, error)

	// Update replaces a todo matched by ID and owner
	Update(ctx context.Context, todo *models.Todo) error

	// DeleteOwned permanently removes a todo matched by ID and owner
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

// ListOptions holds optional paging. A zero Limit returns every record.
type ListOptions struct {
	Offset int
	Limit  int
}

// Repositories groups the repositories backed by one connection.
type Repositories struct {
	Users UserRepository
	Todos TodoRepository
}

// New builds repositories for whichever backend the connection holds.
func New(conn *database.Connection) Repositories {
	if conn.Mongo != nil {
		return Repositories{
			Users: NewMongoUserRepository(conn.Mongo),
			Todos: NewMongoTodoRepository(conn.Mongo),
		}
	}
	return Repositories{
		Users: NewUserRepository(conn.SQL),
		Todos: NewTodoRepository(conn.SQL),
	}
}
