// Package router registers the company, project, excel and sheet routes.
package router

import (
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hierhdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/handler"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	apirouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/gofiber/fiber/v3"
)

// Register returns the registration of the hierarchy routes over st.
func Register(st *store.Store, users *authsvc.UserService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		companyHandler := hierhdl.NewCompanyHandler(hiersvc.NewCompanyService(st))
		projectHandler := hierhdl.NewProjectHandler(hiersvc.NewProjectService(st, users))
		excelHandler := hierhdl.NewExcelHandler(hiersvc.NewExcelService(st))
		sheetHandler := hierhdl.NewSheetHandler(hiersvc.NewSheetService(st))

		adminOnly := r.Authed(authmodels.RoleAdmin)
		managers := r.Authed(authmodels.RoleAdmin, authmodels.RoleSupervisor)
		anyone := r.Authed()

		// Companies
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodPost, "", adminOnly, companyHandler.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodGet, "", managers, companyHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodGet, "/:id", managers, companyHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodPut, "/:id", adminOnly, companyHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodDelete, "/:id", adminOnly, companyHandler.HandleDelete)
		apirouter.RegisterRouteWithMiddleware(v1, "/companies", fiber.MethodPost, "/:id/channels", adminOnly, companyHandler.HandleAddChannel)

		// Projects
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodPost, "", managers, projectHandler.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodGet, "", anyone, projectHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodGet, "/:id", anyone, projectHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodPut, "/:id", managers, projectHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodDelete, "/:id", managers, projectHandler.HandleDelete)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodPost, "/:id/members", managers, projectHandler.HandleAddMembers)
		apirouter.RegisterRouteWithMiddleware(v1, "/projects", fiber.MethodDelete, "/:id/members", managers, projectHandler.HandleRemoveMembers)

		// Excels
		apirouter.RegisterRouteWithMiddleware(v1, "/excels", fiber.MethodPost, "", managers, excelHandler.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/excels", fiber.MethodGet, "", anyone, excelHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/excels", fiber.MethodGet, "/:id", anyone, excelHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/excels", fiber.MethodPut, "/:id", managers, excelHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/excels", fiber.MethodDelete, "/:id", managers, excelHandler.HandleDelete)

		// Sheets
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPost, "", managers, sheetHandler.HandleCreate)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "", anyone, sheetHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "/:id", anyone, sheetHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPut, "/:id", managers, sheetHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodDelete, "/:id", managers, sheetHandler.HandleDelete)
		return nil
	}
}
