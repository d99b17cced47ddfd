package constants

// Context keys
const (
	ContextKeyIdentity     = "identity"
	ContextKeyRequestID    = "request_id"
	ContextKeyExposeErrors = "expose_errors"
)

// Authentication
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
	MinPasswordLength   = 6
	MinNameLength       = 3
	MaxNameLength       = 50
)

// Todo field limits
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Suggestions
const (
	MaxSuggestedTodos     = 20
	MaxSuggestionTextSize = 4000
)

const RequestIDHeader = "X-Request-ID"
const TotalCountHeader = "X-Total-Count"
