package hierhdl

import (
	"context"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles /projects.
type ProjectHandler struct {
	basehdl.BaseHandler
	ProjectService *hiersvc.ProjectService
}

func NewProjectHandler(svc *hiersvc.ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: svc}
}

// HandleCreate handles POST /projects.
func (h *ProjectHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.ProjectCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		project, err := h.ProjectService.Create(c.Context(), principal, input)
		return h.HandleResponseStatus(c, common.StatusCreated, project, err)
	})
}

// HandleList handles GET /projects?companyId=.
func (h *ProjectHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		companyID, err := h.QueryObjectID(c, "companyId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		projects, err := h.ProjectService.List(c.Context(), principal, companyID)
		return h.HandleResponse(c, projects, err)
	})
}

// HandleGet handles GET /projects/:id.
func (h *ProjectHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		project, err := h.ProjectService.Get(c.Context(), principal, id)
		return h.HandleResponse(c, project, err)
	})
}

// HandleUpdate handles PUT /projects/:id.
func (h *ProjectHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.ProjectUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		project, err := h.ProjectService.Update(c.Context(), principal, id, input)
		return h.HandleResponse(c, project, err)
	})
}

// HandleDelete handles DELETE /projects/:id. The project is soft-deleted.
func (h *ProjectHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		err = h.ProjectService.Delete(c.Context(), principal, id)
		return h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
	})
}

// HandleAddMembers handles POST /projects/:id/members.
func (h *ProjectHandler) HandleAddMembers(c fiber.Ctx) error {
	return h.handleMembers(c, h.ProjectService.AddMembers)
}

// HandleRemoveMembers handles DELETE /projects/:id/members.
func (h *ProjectHandler) HandleRemoveMembers(c fiber.Ctx) error {
	return h.handleMembers(c, h.ProjectService.RemoveMembers)
}

type memberFunc = func(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.MemberInput) (hiermodels.Project, error)

func (h *ProjectHandler) handleMembers(c fiber.Ctx, change memberFunc) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input hierdto.MemberInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		project, err := change(c.Context(), principal, id, input)
		return h.HandleResponse(c, project, err)
	})
}
