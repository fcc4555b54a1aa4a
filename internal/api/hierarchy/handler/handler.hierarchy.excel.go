package hierhdl

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// ExcelHandler handles /excels.
type ExcelHandler struct {
	basehdl.BaseHandler
	ExcelService *hiersvc.ExcelService
}

func NewExcelHandler(svc *hiersvc.ExcelService) *ExcelHandler {
	return &ExcelHandler{ExcelService: svc}
}

// HandleCreate handles POST /excels.
func (h *ExcelHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.ExcelCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		excel, err := h.ExcelService.Create(c.Context(), principal, input)
		return h.HandleResponseStatus(c, common.StatusCreated, excel, err)
	})
}

// HandleList handles GET /excels?projectId=.
func (h *ExcelHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		parentID, err := h.QueryObjectID(c, "projectId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		excels, err := h.ExcelService.List(c.Context(), principal, parentID)
		return h.HandleResponse(c, excels, err)
	})
}

// HandleGet handles GET /excels/:id.
func (h *ExcelHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		excel, err := h.ExcelService.Get(c.Context(), principal, id)
		return h.HandleResponse(c, excel, err)
	})
}

// HandleUpdate handles PUT /excels/:id.
func (h *ExcelHandler) HandleUpdate(c fiber.Ctx) error {
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
		excel, err := h.ExcelService.Update(c.Context(), principal, id, input)
		return h.HandleResponse(c, excel, err)
	})
}

// HandleDelete handles DELETE /excels/:id.
func (h *ExcelHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		err = h.ExcelService.Delete(c.Context(), principal, id)
		return h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
	})
}
