package sheethdl

import (
	"strconv"

	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// RowHandler handles row reads, cell writes, bulk inserts and imports.
type RowHandler struct {
	basehdl.BaseHandler
	RowService        *sheetsvc.RowService
	PermissionService *sheetsvc.PermissionService
	ImportService     *sheetsvc.ImportService
	DefaultLimit      int64
}

func NewRowHandler(rows *sheetsvc.RowService, perms *sheetsvc.PermissionService, imports *sheetsvc.ImportService, defaultLimit int) *RowHandler {
	if defaultLimit < 1 {
		defaultLimit = 50
	}
	return &RowHandler{
		RowService:        rows,
		PermissionService: perms,
		ImportService:     imports,
		DefaultLimit:      int64(defaultLimit),
	}
}

func (h *RowHandler) pageParams(c fiber.Ctx) (sheetsvc.PageParams, error) {
	page, err := utility.ParseIntParam("page", c.Query("page"), 1)
	if err != nil {
		return sheetsvc.PageParams{}, err
	}
	limit, err := utility.ParseIntParam("limit", c.Query("limit"), h.DefaultLimit)
	if err != nil {
		return sheetsvc.PageParams{}, err
	}
	skip, err := utility.ParseIntParam("skip", c.Query("skip"), 0)
	if err != nil {
		return sheetsvc.PageParams{}, err
	}
	return sheetsvc.PageParams{Page: page, Limit: limit, Skip: skip}, nil
}

func rowNumberParam(c fiber.Ctx) (int, error) {
	raw := c.Params("rowNumber")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.Validation("rowNumber must be an integer", map[string]string{"rowNumber": raw})
	}
	return n, nil
}

// HandleList handles GET /sheets/:id/rows?page=&limit=&skip=.
func (h *RowHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		params, err := h.pageParams(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		page, err := h.PermissionService.RowsForPrincipal(c.Context(), principal, sheetID, params)
		return h.HandleResponse(c, page, err)
	})
}

// HandleGet handles GET /sheets/:id/rows/:rowNumber.
func (h *RowHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		rowNumber, err := rowNumberParam(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		row, err := h.PermissionService.ReadRow(c.Context(), principal, sheetID, rowNumber)
		return h.HandleResponse(c, row, err)
	})
}

// HandleAccess handles GET /sheets/:id/rows/:rowNumber/access.
func (h *RowHandler) HandleAccess(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		rowNumber, err := rowNumberParam(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		access, err := h.PermissionService.CanAccessRow(c.Context(), principal, sheetID, rowNumber)
		return h.HandleResponse(c, access, err)
	})
}

// HandleSetCell handles PUT /sheets/:id/rows/:rowNumber/cells/:dataKey.
func (h *RowHandler) HandleSetCell(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		rowNumber, err := rowNumberParam(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.CellInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		row, err := h.PermissionService.WriteCell(c.Context(), principal, sheetID, rowNumber, c.Params("dataKey"), input.Value)
		return h.HandleResponse(c, row, err)
	})
}

// HandleInsert handles POST /sheets/:id/rows.
func (h *RowHandler) HandleInsert(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var input sheetdto.RowsInsertInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		n, err := h.RowService.InsertRowsFor(c.Context(), principal, sheetID, input.Rows)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		return h.HandleResponseStatus(c, common.StatusCreated, fiber.Map{"inserted": n}, nil)
	})
}

// HandleClear handles DELETE /sheets/:id/rows.
func (h *RowHandler) HandleClear(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		n, err := h.RowService.ClearRowsFor(c.Context(), principal, sheetID)
		return h.HandleResponse(c, fiber.Map{"deleted": n}, err)
	})
}

// HandleImport handles POST /sheets/:id/import with the workbook in the
// "file" form field and an optional "worksheet" name.
func (h *RowHandler) HandleImport(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		sheetID, err := h.ParamObjectID(c, "id")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		header, err := c.FormFile("file")
		if err != nil {
			return h.HandleResponse(c, nil, common.Validation("Missing xlsx upload in field file", nil))
		}
		file, err := header.Open()
		if err != nil {
			return h.HandleResponse(c, nil, common.InvalidFormat("Upload cannot be read", err))
		}
		defer file.Close()

		result, err := h.ImportService.Import(c.Context(), principal, sheetID, file, c.FormValue("worksheet"))
		if err != nil {
			return h.HandleResponse(c, result, err)
		}
		return h.HandleResponseStatus(c, common.StatusCreated, result, nil)
	})
}
