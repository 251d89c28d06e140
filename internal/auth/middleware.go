package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/domain"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

const sessionKey = "auth_session"

// SessionResolver reports the currently active session, if any.
type SessionResolver interface {
	CurrentSession() *domain.Session
}

// Middleware validates bearer tokens against the single active session.
// A token issued for a previous session is rejected once a logout or a
// different login has replaced it.
type Middleware struct {
	tokens   *TokenManager
	sessions SessionResolver
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions SessionResolver) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session := m.sessions.CurrentSession()
	if session == nil || session.AccountID != claims.AccountID {
		return apperrors.NewUnauthorized("no active session for token")
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
