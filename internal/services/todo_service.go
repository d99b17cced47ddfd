package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrInvalidTodoID = errors.New("invalid todo id")
)

// TodoService handles todo business logic. Every operation is scoped to
// the owner passed in by the caller.
type TodoService struct {
	todos repository.TodoRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewTodoService creates a new TodoService
func NewTodoService(todos repository.TodoRepository, log zerolog.Logger) *TodoService {
	return &TodoService{
		todos: todos,
		log:   log.With().Str("component", "todos").Logger(),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// ListTodosInput represents paging for listing todos. A zero PageSize
// returns every todo of the owner.
type ListTodosInput struct {
	OwnerID  string
	Page     int
	PageSize int
}

// CreateTodoInput represents input for creating a todo. Invalid carries
// field errors found while decoding the request; they are reported together
// with any constraint the remaining fields violate.
type CreateTodoInput struct {
	OwnerID     string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Invalid     []FieldError
}

// UpdateTodoInput represents a partial update. Nil fields keep their
// current value.
type UpdateTodoInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
	Invalid      []FieldError
}

// List returns the owner's todos, newest first
func (s *TodoService) List(ctx context.Context, input ListTodosInput) ([]models.Todo, int64, error) {
	opts := repository.ListOptions{}
	if input.PageSize > 0 {
		page := max(input.Page, 1)
		opts.Limit = input.PageSize
		opts.Offset = (page - 1) * input.PageSize
	}

	todos, total, err := s.todos.ListByOwner(ctx, input.OwnerID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, total, nil
}

// Get returns one todo owned by ownerID
func (s *TodoService) Get(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	id = models.NormalizeID(id)
	if !models.IsValidID(id) {
		return nil, ErrInvalidTodoID
	}
	return s.findOwned(ctx, id, ownerID)
}

// Create creates a new todo for the owner
func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (*models.Todo, error) {
	now := s.timestamp()
	todo := &models.Todo{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TodoStatus(input.Status),
		Priority:    models.TodoPriority(input.Priority),
		DueDate:     input.DueDate,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
	}
	models.Normalize(todo, now)
	if err := withFieldErrors(input.Invalid, validateStruct(todo)); err != nil {
		return nil, err
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.log.Debug().Str("todo_id", todo.ID).Str("owner_id", todo.OwnerID).Msg("todo created")
	return todo, nil
}

// Update merges a partial update into an owned todo and persists the
// normalized result.
func (s *TodoService) Update(ctx context.Context, id, ownerID string, input UpdateTodoInput) (*models.Todo, error) {
	id = models.NormalizeID(id)
	if !models.IsValidID(id) {
		return nil, ErrInvalidTodoID
	}

	todo, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Priority != nil {
		todo.Priority = models.TodoPriority(*input.Priority)
	}
	switch {
	case input.Status != nil:
		todo.Status = models.TodoStatus(*input.Status)
	case input.Completed != nil && *input.Completed:
		todo.Status = models.TodoStatusCompleted
	case input.Completed != nil && todo.Status == models.TodoStatusCompleted:
		todo.Status = models.TodoStatusNotStarted
	}
	if input.ClearDueDate {
		todo.DueDate = nil
	} else if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	models.Normalize(todo, s.timestamp())
	if err := withFieldErrors(input.Invalid, validateStruct(todo)); err != nil {
		return nil, err
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// Delete permanently removes an owned todo and returns its id
func (s *TodoService) Delete(ctx context.Context, id, ownerID string) (string, error) {
	id = models.NormalizeID(id)
	if !models.IsValidID(id) {
		return "", ErrInvalidTodoID
	}

	if err := s.todos.DeleteOwned(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTodoNotFound
		}
		return "", fmt.Errorf("failed to delete todo: %w", err)
	}

	s.log.Debug().Str("todo_id", id).Str("owner_id", ownerID).Msg("todo deleted")
	return id, nil
}

func (s *TodoService) findOwned(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	todo, err := s.todos.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}
