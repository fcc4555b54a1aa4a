// Package router registers the user directory routes.
package router

import (
	authhdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/handler"
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	apirouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register returns the registration of /users. Only admins manage the
// directory.
func Register(users *authsvc.UserService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := authhdl.NewUserHandler(users)
		adminOnly := r.Authed(authmodels.RoleAdmin)

		apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodPost, "", adminOnly, h.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodGet, "", adminOnly, h.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodGet, "/:id", adminOnly, h.HandleGet)
		return nil
	}
}
