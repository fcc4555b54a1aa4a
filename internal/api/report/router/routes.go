// Package router registers the report routes.
package router

import (
	reporthdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/handler"
	reportsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/service"
	apirouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register returns the registration of the report routes. Every role may
// read the report; the service slices it to the caller.
func Register(reports *reportsvc.ReportService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := reporthdl.NewReportHandler(reports)
		anyone := r.Authed()

		apirouter.RegisterRouteWithMiddleware(v1, "/report", fiber.MethodGet, "", anyone, h.HandleQuery)
		apirouter.RegisterRouteWithMiddleware(v1, "/report", fiber.MethodGet, "/stats", anyone, h.HandleStats)
		apirouter.RegisterRouteWithMiddleware(v1, "/report", fiber.MethodGet, "/export", anyone, h.HandleExport)
		return nil
	}
}
