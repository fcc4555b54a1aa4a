package sheethdl

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/service"

	"github.com/gofiber/fiber/v3"
)

// PermissionHandler manages agent row ranges on sheets.
type PermissionHandler struct {
	basehdl.BaseHandler
	PermissionService *sheetsvc.PermissionService
}

func NewPermissionHandler(svc *sheetsvc.PermissionService) *PermissionHandler {
	return &PermissionHandler{PermissionService: svc}
}

// HandleGrant handles POST /sheets/:id/permissions.
func (h *PermissionHandler) HandleGrant(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.GrantInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.PermissionService.GrantRowRange(c.Context(), principal, sheetID, input)
		return h.HandleResponse(c, sheet, err)
	})
}

// HandleReplace handles PUT /sheets/:id/permissions/:agentId.
func (h *PermissionHandler) HandleReplace(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		agentID, err := h.ParamObjectID(c, "agentId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.ReplaceRangesInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.PermissionService.ReplaceRowRanges(c.Context(), principal, sheetID, agentID, input.Ranges)
		return h.HandleResponse(c, sheet, err)
	})
}

// HandleRevoke handles DELETE /sheets/:id/agents/:agentId.
func (h *PermissionHandler) HandleRevoke(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		agentID, err := h.ParamObjectID(c, "agentId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.PermissionService.RevokeAgent(c.Context(), principal, sheetID, agentID)
		return h.HandleResponse(c, sheet, err)
	})
}
