// Package authhdl serves the user directory.
package authhdl

import (
	authdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/dto"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// UserHandler handles /users.
type UserHandler struct {
	basehdl.BaseHandler
	UserService *authsvc.UserService
}

// NewUserHandler returns a UserHandler.
func NewUserHandler(users *authsvc.UserService) *UserHandler {
	return &UserHandler{UserService: users}
}

// HandleCreate handles POST /users.
func (h *UserHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		user, err := h.UserService.Create(c.Context(), input)
		return h.HandleResponseStatus(c, common.StatusCreated, user, err)
	})
}

// HandleList handles GET /users.
func (h *UserHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		users, err := h.UserService.List(c.Context())
		return h.HandleResponse(c, users, err)
	})
}

// HandleGet handles GET /users/:id.
func (h *UserHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		user, err := h.UserService.Get(c.Context(), id)
		return h.HandleResponse(c, user, err)
	})
}
