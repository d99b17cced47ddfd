package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrMalformedHeader = errors.New("malformed authorization header")
)

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Gate authenticates requests from their Authorization header. It trusts
// the token claims and never consults the user store.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate extracts and verifies a "Bearer <token>" header value.
func (g *Gate) Authenticate(header string) (auth.Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return auth.Identity{}, ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, constants.BearerScheme) {
		return auth.Identity{}, ErrMalformedHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Identity{}, ErrMissingToken
	}

	return g.tokens.Verify(token)
}

// RequireAuth rejects unauthenticated requests and stores the identity in
// the context for WithIdentity.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authenticate(c.GetHeader(constants.AuthorizationHeader))
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				apierrors.Unauthorized(c, "Not authorized, no token")
			} else {
				apierrors.Unauthorized(c, "Not authorized, token failed")
			}
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}

// WithIdentity adapts a handler that takes the caller's identity as an
// argument. Requests that did not pass RequireAuth get a 401.
func WithIdentity(handler func(c *gin.Context, identity auth.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		handler(c, identity)
	}
}
