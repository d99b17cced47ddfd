package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
)

var ErrSuggestionsUnavailable = errors.New("todo suggestions are not configured")

// ChatCompleter is the part of the OpenAI client used for suggestions.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TodoDraft is a suggested todo. Drafts are never persisted.
type TodoDraft struct {
	Title       string
	Description string
	Status      models.TodoStatus
	Priority    models.TodoPriority
	DueDate     *time.Time
}

type suggestedTodo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// SuggestionService drafts todos from free text with a chat model.
type SuggestionService struct {
	client ChatCompleter
	model  string
	log    zerolog.Logger
	now    func() time.Time
}

// NewSuggestionService builds the service from configuration. Without an
// API key every call returns ErrSuggestionsUnavailable.
func NewSuggestionService(cfg config.OpenAIConfig, log zerolog.Logger) *SuggestionService {
	var client ChatCompleter
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	return NewSuggestionServiceWithClient(client, cfg.Model, log)
}

func NewSuggestionServiceWithClient(client ChatCompleter, model string, log zerolog.Logger) *SuggestionService {
	if model == "" {
		model = openai.GPT4o
	}
	return &SuggestionService{
		client: client,
		model:  model,
		log:    log.With().Str("component", "suggestions").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for the prompt and due date cutoff.
func (s *SuggestionService) WithClock(now func() time.Time) *SuggestionService {
	s.now = now
	return s
}

// Enabled reports whether a chat client is configured.
func (s *SuggestionService) Enabled() bool {
	return s.client != nil
}

// Suggest extracts todo drafts from text
func (s *SuggestionService) Suggest(ctx context.Context, text string) ([]TodoDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newValidationError("text", "text is required")
	}
	if len(text) > constants.MaxSuggestionTextSize {
		return nil, newValidationError("text", fmt.Sprintf("text must be at most %d characters", constants.MaxSuggestionTextSize))
	}
	if s.client == nil {
		return nil, ErrSuggestionsUnavailable
	}

	now := s.now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionInstructions},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Current time: %s\n\nText:\n%s", now.Format(time.RFC3339), text)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	var suggested []suggestedTodo
	if err := json.Unmarshal([]byte(content), &suggested); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	drafts := make([]TodoDraft, 0, min(len(suggested), constants.MaxSuggestedTodos))
	cutoff := now.Add(-24 * time.Hour)
	for _, st := range suggested {
		if len(drafts) == constants.MaxSuggestedTodos {
			break
		}
		draft, ok := toDraft(st, now, cutoff)
		if !ok {
			s.log.Debug().Str("title", st.Title).Msg("dropped invalid suggestion")
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func toDraft(st suggestedTodo, now, cutoff time.Time) (TodoDraft, bool) {
	todo := models.Todo{
		Title:       st.Title,
		Description: st.Description,
		Priority:    models.TodoPriority(st.Priority),
		OwnerID:     "draft",
	}
	models.Normalize(&todo, now)
	if !todo.Priority.Valid() {
		todo.Priority = models.DefaultTodoPriority
	}
	if st.DueDate != nil {
		if due, err := models.ParseDueDate(*st.DueDate); err == nil && !due.Before(cutoff) {
			todo.DueDate = &due
		}
	}
	if err := validateStruct(&todo); err != nil {
		return TodoDraft{}, false
	}

	return TodoDraft{
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
	}, true
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var suggestionInstructions = fmt.Sprintf(`You extract concrete todo items from the user's text.
Reply with a JSON array only, no prose:
[
  {
    "title": "short title, at most %d characters",
    "description": "optional details, at most %d characters",
    "priority": "Low, Medium or High",
    "dueDate": "RFC 3339 timestamp, or null when the text gives no deadline"
  }
]
Resolve relative deadlines such as "tomorrow" against the current time.
Return [] when the text contains no tasks.`, constants.MaxTitleLength, constants.MaxDescriptionLength)
