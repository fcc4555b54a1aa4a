package middleware

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// AuthMiddleware verifies the bearer token and stores the principal in
// Locals and in the request context.
func AuthMiddleware(tokens *authsvc.TokenService) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := strings.TrimSpace(c.Get("Authorization"))
		if header == "" {
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		principal, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			logger.WithRequest(c).WithError(err).Debug("Bearer token rejected")
			return HandleErrorResponse(c, err)
		}

		c.Locals(basehdl.PrincipalLocalsKey, principal)
		c.Locals("user_id", principal.UserID.Hex())

		ctx := authmodels.WithPrincipal(c.Context(), principal)
		ctx = context.WithValue(ctx, logger.UserIDKey, principal.UserID.Hex())
		ctx = context.WithValue(ctx, logger.RoleKey, string(principal.Role))
		if rid := requestid.FromContext(c); rid != "" {
			ctx = context.WithValue(ctx, logger.RequestIDKey, rid)
		}
		c.SetContext(ctx)
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after
// AuthMiddleware.
func RequireRoles(roles ...authmodels.Role) fiber.Handler {
	allowed := make(map[authmodels.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c fiber.Ctx) error {
		principal, ok := c.Locals(basehdl.PrincipalLocalsKey).(authmodels.Principal)
		if !ok {
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}
		if !allowed[principal.Role] {
			return HandleErrorResponse(c, common.ErrRoleDenied)
		}
		return c.Next()
	}
}
