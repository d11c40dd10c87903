package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	apperrors "github.com/Katsud0n0/city-nexus-connect/pkg/util"
)

const currentUserKey = "current_user"

// Middleware validates bearer tokens and loads the account they belong to.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
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

	user, err := m.users.GetByUsername(c.UserContext(), claims.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser retrieves the authenticated account from the request context.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
