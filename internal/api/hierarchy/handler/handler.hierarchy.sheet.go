package hierhdl

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// SheetHandler handles /sheets.
type SheetHandler struct {
	basehdl.BaseHandler
	SheetService *hiersvc.SheetService
}

func NewSheetHandler(svc *hiersvc.SheetService) *SheetHandler {
	return &SheetHandler{SheetService: svc}
}

// HandleCreate handles POST /sheets.
func (h *SheetHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.SheetCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.SheetService.Create(c.Context(), principal, input)
		return h.HandleResponseStatus(c, common.StatusCreated, sheet, err)
	})
}

// HandleList handles GET /sheets?excelId=.
func (h *SheetHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		parentID, err := h.QueryObjectID(c, "excelId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheets, err := h.SheetService.List(c.Context(), principal, parentID)
		return h.HandleResponse(c, sheets, err)
	})
}

// HandleGet handles GET /sheets/:id.
func (h *SheetHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.SheetService.Get(c.Context(), principal, id)
		return h.HandleResponse(c, sheet, err)
	})
}

// HandleUpdate handles PUT /sheets/:id.
func (h *SheetHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.NamedUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheet, err := h.SheetService.Update(c.Context(), principal, id, input)
		return h.HandleResponse(c, sheet, err)
	})
}

// HandleDelete handles DELETE /sheets/:id.
func (h *SheetHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		err = h.SheetService.Delete(c.Context(), principal, id)
		return h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
	})
}
