package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = models.NewID()
	}
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// ListByOwner retrieves an owner's todos, newest first
func (r *GormTodoRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Todo, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Todo{}).Where("owner_id = ?", ownerID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	todos := []models.Todo{}
	if err := query.Scopes(paginate(opts)).Order("created_at DESC").Order("id DESC").Find(&todos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

// FindOwned finds a todo by ID and owner
func (r *GormTodoRepository) FindOwned(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&todo).Error; err != nil {
		return nil, translateError(err)
	}
	return &todo, nil
}

// Update updates a todo
func (r *GormTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	result := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ? AND owner_id = ?", todo.ID, todo.OwnerID).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(todo)
	if result.Error != nil {
		return fmt.Errorf("failed to update todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned permanently deletes a todo
func (r *GormTodoRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Todo{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// paginate applies offset/limit when a limit is set
func paginate(opts ListOptions) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.Limit <= 0 {
			return db
		}
		return db.Offset(opts.Offset).Limit(opts.Limit)
	}
}
