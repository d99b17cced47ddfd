package dto

import (
	"time"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID          string              `json:"_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TodoStatus   `json:"status"`
	Priority    models.TodoPriority `json:"priority"`
	Completed   bool                `json:"completed"`
	DueDate     *time.Time          `json:"dueDate"`
	OwnerID     string              `json:"ownerId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// DeleteResponse confirms a deletion with the removed id
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// TodoDraftDTO is a suggested todo that has not been saved
type TodoDraftDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TodoStatus   `json:"status"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
}

// SuggestionsResponse wraps suggested drafts
type SuggestionsResponse struct {
	Success bool           `json:"success"`
	Data    []TodoDraftDTO `json:"data"`
}

func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		Completed:   todo.Completed,
		DueDate:     todo.DueDate,
		OwnerID:     todo.OwnerID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	result := make([]TodoDTO, 0, len(todos))
	for _, todo := range todos {
		result = append(result, ToTodoDTO(todo))
	}
	return result
}

func ToTodoDraftDTOs(drafts []services.TodoDraft) []TodoDraftDTO {
	result := make([]TodoDraftDTO, 0, len(drafts))
	for _, d := range drafts {
		result = append(result, TodoDraftDTO{
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
			Priority:    d.Priority,
			DueDate:     d.DueDate,
		})
	}
	return result
}
