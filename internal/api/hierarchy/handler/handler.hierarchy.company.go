// Package hierhdl serves the company, project, excel and sheet endpoints.
package hierhdl

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// CompanyHandler handles /companies.
type CompanyHandler struct {
	basehdl.BaseHandler
	CompanyService *hiersvc.CompanyService
}

func NewCompanyHandler(svc *hiersvc.CompanyService) *CompanyHandler {
	return &CompanyHandler{CompanyService: svc}
}

// HandleCreate handles POST /companies.
func (h *CompanyHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input hierdto.CompanyCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		company, err := h.CompanyService.Create(c.Context(), input)
		return h.HandleResponseStatus(c, common.StatusCreated, company, err)
	})
}

// HandleList handles GET /companies.
func (h *CompanyHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		companies, err := h.CompanyService.List(c.Context())
		return h.HandleResponse(c, companies, err)
	})
}

// HandleGet handles GET /companies/:id.
func (h *CompanyHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		company, err := h.CompanyService.Get(c.Context(), id)
		return h.HandleResponse(c, company, err)
	})
}

// HandleUpdate handles PUT /companies/:id.
func (h *CompanyHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.CompanyUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		company, err := h.CompanyService.Update(c.Context(), id, input)
		return h.HandleResponse(c, company, err)
	})
}

// HandleDelete handles DELETE /companies/:id.
func (h *CompanyHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		err = h.CompanyService.Delete(c.Context(), id)
		return h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
	})
}

// HandleAddChannel handles POST /companies/:id/channels.
func (h *CompanyHandler) HandleAddChannel(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.ChannelInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		company, err := h.CompanyService.AddChannel(c.Context(), id, input)
		return h.HandleResponse(c, company, err)
	})
}
