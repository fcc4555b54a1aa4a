// Package router owns route registration helpers and the /api/v1 group.
package router

import (
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/api/middleware"

	"github.com/gofiber/fiber/v3"
)

// RoutePrefix holds the API prefixes.
type RoutePrefix struct {
	Base string
	V1   string
}

// NewRoutePrefix returns the default /api and /api/v1 prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Router carries what domain routers need to build their middleware.
type Router struct {
	app    *fiber.App
	tokens *authsvc.TokenService
}

// NewRouter returns a Router for app.
func NewRouter(app *fiber.App, tokens *authsvc.TokenService) *Router {
	return &Router{app: app, tokens: tokens}
}

// Auth returns the bearer authentication middleware.
func (r *Router) Auth() fiber.Handler {
	return middleware.AuthMiddleware(r.tokens)
}

// Authed returns auth followed by a role gate. With no roles every
// authenticated caller passes.
func (r *Router) Authed(roles ...authmodels.Role) []fiber.Handler {
	handlers := []fiber.Handler{r.Auth()}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRoles(roles...))
	}
	return handlers
}

// RegisterRouteWithMiddleware registers handler on prefix+path with the
// middlewares running before it. The chain is attached to the route itself
// so gates of one route never leak onto siblings sharing the prefix.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	chain := make([]fiber.Handler, 0, len(middlewares)+1)
	chain = append(chain, middlewares...)
	chain = append(chain, handler)

	full := prefix + path
	switch method {
	case fiber.MethodGet:
		router.Get(full, chain[0], chain[1:]...)
	case fiber.MethodPost:
		router.Post(full, chain[0], chain[1:]...)
	case fiber.MethodPut:
		router.Put(full, chain[0], chain[1:]...)
	case fiber.MethodDelete:
		router.Delete(full, chain[0], chain[1:]...)
	}
}

// RegisterFunc registers one domain's routes on v1.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes creates the v1 group and runs every domain registration.
func SetupRoutes(app *fiber.App, tokens *authsvc.TokenService, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, tokens)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSystem registers the unauthenticated /system/health route.
func RegisterSystem(pingDB basehdl.Pinger) RegisterFunc {
	return func(v1 fiber.Router, r *Router) error {
		h := basehdl.NewSystemHandler(pingDB)
		RegisterRouteWithMiddleware(v1, "/system", fiber.MethodGet, "/health", nil, h.HandleHealth)
		return nil
	}
}
