package models

import (
	"fmt"
	"strings"
	"time"
)

type TodoStatus string

const (
	TodoStatusNotStarted TodoStatus = "Not Started"
	TodoStatusInProgress TodoStatus = "In Progress"
	TodoStatusCompleted  TodoStatus = "Completed"
)

type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "Low"
	TodoPriorityMedium TodoPriority = "Medium"
	TodoPriorityHigh   TodoPriority = "High"
)

const (
	DefaultTodoStatus   = TodoStatusNotStarted
	DefaultTodoPriority = TodoPriorityMedium
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusNotStarted, TodoStatusInProgress, TodoStatusCompleted:
		return true
	}
	return false
}

func (p TodoPriority) Valid() bool {
	switch p {
	case TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID          string       `gorm:"primarykey;type:varchar(24)" json:"_id"`
	Title       string       `gorm:"type:varchar(100);not null" json:"title" validate:"required,todo_title"`
	Description string       `gorm:"type:varchar(500)" json:"description" validate:"todo_description"`
	Status      TodoStatus   `gorm:"type:varchar(20);not null;default:'Not Started'" json:"status" validate:"todo_status"`
	Priority    TodoPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority" validate:"todo_priority"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	DueDate     *time.Time   `json:"dueDate"`
	OwnerID     string       `gorm:"type:varchar(24);not null;index:idx_todos_owner_created,priority:1" json:"ownerId" validate:"required"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false;index:idx_todos_owner_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// ParseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", s)
	}
	return t, nil
}
