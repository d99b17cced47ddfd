package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

type TodoHandler struct {
	todoService       *services.TodoService
	suggestionService *services.SuggestionService
}

func NewTodoHandler(todoService *services.TodoService, suggestionService *services.SuggestionService) *TodoHandler {
	return &TodoHandler{
		todoService:       todoService,
		suggestionService: suggestionService,
	}
}

// ListTodos returns the caller's todos, newest first. Paging is optional;
// the total is always sent in X-Total-Count.
func (h *TodoHandler) ListTodos(c *gin.Context, identity auth.Identity) {
	input := services.ListTodosInput{OwnerID: identity.UserID}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	todos, total, err := h.todoService.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header(constants.TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTodoDTOs(todos))
}

// GetTodo returns a specific todo by ID
func (h *TodoHandler) GetTodo(c *gin.Context, identity auth.Identity) {
	todo, err := h.todoService.Get(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

type createTodoRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// CreateTodo creates a new todo owned by the caller. Any owner sent by the
// client is ignored.
func (h *TodoHandler) CreateTodo(c *gin.Context, identity auth.Identity) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTodoInput{
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		if due, err := models.ParseDueDate(*req.DueDate); err != nil {
			input.Invalid = append(input.Invalid, dueDateFieldError)
		} else {
			input.DueDate = &due
		}
	}

	todo, err := h.todoService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateTodo applies a partial update
func (h *TodoHandler) UpdateTodo(c *gin.Context, identity auth.Identity) {
	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := parseTodoPatch(rawReq)

	todo, err := h.todoService.Update(c.Request.Context(), c.Param("id"), identity.UserID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo permanently removes a todo
func (h *TodoHandler) DeleteTodo(c *gin.Context, identity auth.Identity) {
	id, err := h.todoService.Delete(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{
		Success: true,
		Message: "Todo removed",
		Data:    id,
	})
}

// SuggestTodos drafts todos from free text without saving them
func (h *TodoHandler) SuggestTodos(c *gin.Context, _ auth.Identity) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.suggestionService.Suggest(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuggestionsResponse{
		Success: true,
		Data:    dto.ToTodoDraftDTOs(drafts),
	})
}

var dueDateFieldError = services.FieldError{
	Field:   "dueDate",
	Message: "dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date",
}

// parseTodoPatch converts a raw JSON object into an update. Absent keys
// keep the stored value; a null or empty dueDate clears it. Keys with the
// wrong type are recorded in Invalid and otherwise ignored.
func parseTodoPatch(raw map[string]any) services.UpdateTodoInput {
	var input services.UpdateTodoInput
	var fieldErrs []services.FieldError

	stringField := func(key string) *string {
		value, ok := raw[key]
		if !ok {
			return nil
		}
		switch v := value.(type) {
		case nil:
			empty := ""
			return &empty
		case string:
			return &v
		default:
			fieldErrs = append(fieldErrs, services.FieldError{Field: key, Message: fmt.Sprintf("%s must be a string", key)})
			return nil
		}
	}

	input.Title = stringField("title")
	input.Description = stringField("description")
	input.Status = stringField("status")
	input.Priority = stringField("priority")

	if value, ok := raw["completed"]; ok && value != nil {
		completed, ok := value.(bool)
		if ok {
			input.Completed = &completed
		} else {
			fieldErrs = append(fieldErrs, services.FieldError{Field: "completed", Message: "completed must be a boolean"})
		}
	}

	if value, ok := raw["dueDate"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearDueDate = true
		case string:
			if v == "" {
				input.ClearDueDate = true
				break
			}
			due, err := models.ParseDueDate(v)
			if err != nil {
				fieldErrs = append(fieldErrs, dueDateFieldError)
				break
			}
			input.DueDate = &due
		default:
			fieldErrs = append(fieldErrs, dueDateFieldError)
		}
	}

	input.Invalid = fieldErrs
	return input
}
