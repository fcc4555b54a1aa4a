// Package reporthdl serves the flattened company report.
package reporthdl

import (
	"bytes"
	"fmt"
	"time"

	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	reportsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/service"

	"github.com/gofiber/fiber/v3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	basehdl.BaseHandler
	ReportService *reportsvc.ReportService
}

func NewReportHandler(reports *reportsvc.ReportService) *ReportHandler {
	return &ReportHandler{ReportService: reports}
}

// HandleQuery handles GET /report?query=&companyId=.
func (h *ReportHandler) HandleQuery(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		companyID, err := h.QueryObjectID(c, "companyId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		page, err := h.ReportService.Query(c.Context(), principal, companyID, c.Query("query"))
		return h.HandleResponse(c, page, err)
	})
}

// HandleStats handles GET /report/stats?query=&column=&companyId=.
func (h *ReportHandler) HandleStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		companyID, err := h.QueryObjectID(c, "companyId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		stats, err := h.ReportService.Stats(c.Context(), principal, companyID, c.Query("query"), c.Query("column"))
		return h.HandleResponse(c, stats, err)
	})
}

// HandleExport handles GET /report/export?query=&companyId= and streams an
// xlsx workbook.
func (h *ReportHandler) HandleExport(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		principal, err := h.Principal(c)
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		companyID, err := h.QueryObjectID(c, "companyId")
		if err != nil {
			return h.HandleResponse(c, nil, err)
		}
		var buf bytes.Buffer
		if _, err := h.ReportService.Export(c.Context(), principal, companyID, c.Query("query"), &buf); err != nil {
			return h.HandleResponse(c, nil, err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="report-%s.xlsx"`, time.Now().Format("20060102-150405")))
		return c.Send(buf.Bytes())
	})
}
