package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/facility-desk/internal/domain"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// ActorResolver loads the directory identity behind a token subject.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
}

// AuthMiddleware validates bearer tokens and loads the acting user.
type AuthMiddleware struct {
	tokens *TokenManager
	actors ActorResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, actors ActorResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, actors: actors}
}

// Handle enforces authentication for protected routes. Unapproved accounts are
// turned away here; role checks happen per route.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	actor, err := m.actors.ResolveActor(c.UserContext(), claims.Subject)
	if err != nil {
		return err
	}
	if !actor.Approved {
		return apperrors.NewForbidden("account is awaiting administrator approval")
	}

	c.Locals(principalKey, actor)
	return c.Next()
}

// ActorFromContext retrieves the authenticated actor.
func ActorFromContext(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(principalKey).(domain.Actor)
	return actor, ok
}
