// Package sheethdl serves columns, rows, row permissions and xlsx import.
package sheethdl

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// ColumnHandler handles the column registry endpoints.
type ColumnHandler struct {
	basehdl.BaseHandler
	ColumnService *sheetsvc.ColumnService
}

func NewColumnHandler(svc *sheetsvc.ColumnService) *ColumnHandler {
	return &ColumnHandler{ColumnService: svc}
}

// HandleDefine handles POST /sheets/:id/columns.
func (h *ColumnHandler) HandleDefine(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.ColumnCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		column, err := h.ColumnService.Define(c.Context(), principal, sheetID, input)
		return h.HandleResponseStatus(c, common.StatusCreated, column, err)
	})
}

// HandleList handles GET /sheets/:id/columns.
func (h *ColumnHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		columns, err := h.ColumnService.List(c.Context(), principal, sheetID)
		return h.HandleResponse(c, columns, err)
	})
}

// HandleGet handles GET /columns/:id.
func (h *ColumnHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		column, err := h.ColumnService.Get(c.Context(), principal, id)
		return h.HandleResponse(c, column, err)
	})
}

// HandleUpdate handles PUT /columns/:id.
func (h *ColumnHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.ColumnUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		column, err := h.ColumnService.Update(c.Context(), principal, id, input)
		return h.HandleResponse(c, column, err)
	})
}

// HandleDelete handles DELETE /columns/:id.
func (h *ColumnHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		err = h.ColumnService.Delete(c.Context(), principal, id)
		return h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
	})
}
