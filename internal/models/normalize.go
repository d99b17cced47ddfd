package models

import (
	"strings"
	"time"
)

var statusSynonyms = map[string]TodoStatus{
	"pending":     TodoStatusNotStarted,
	"not started": TodoStatusNotStarted,
	"in progress": TodoStatusInProgress,
	"completed":   TodoStatusCompleted,
	"done":        TodoStatusCompleted,
}

// canonicalKey lowercases, trims and collapses inner whitespace so
// "  In   Progress " matches "in progress".
func canonicalKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NormalizeStatus maps accepted spellings to a canonical status.
// Unrecognized input is returned trimmed but otherwise unchanged.
func NormalizeStatus(s TodoStatus) TodoStatus {
	if canonical, ok := statusSynonyms[canonicalKey(string(s))]; ok {
		return canonical
	}
	return TodoStatus(strings.TrimSpace(string(s)))
}

// NormalizePriority maps case variants to a canonical priority.
// Unrecognized input is returned trimmed but otherwise unchanged.
func NormalizePriority(p TodoPriority) TodoPriority {
	switch canonicalKey(string(p)) {
	case "low":
		return TodoPriorityLow
	case "medium":
		return TodoPriorityMedium
	case "high":
		return TodoPriorityHigh
	}
	return TodoPriority(strings.TrimSpace(string(p)))
}

// Normalize canonicalizes a todo in place before it is written. It runs on
// the fully merged record, so a patch touching only priority still derives
// Completed from the resulting status.
func Normalize(t *Todo, now time.Time) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)

	if strings.TrimSpace(string(t.Status)) == "" {
		t.Status = DefaultTodoStatus
	}
	t.Status = NormalizeStatus(t.Status)

	if strings.TrimSpace(string(t.Priority)) == "" {
		t.Priority = DefaultTodoPriority
	}
	t.Priority = NormalizePriority(t.Priority)

	t.Completed = t.Status == TodoStatusCompleted
	t.UpdatedAt = now
}
