// Package router registers the column, row and permission routes.
package router

import (
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	apirouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"
	sheethdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/handler"
	sheetsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/service"

	"github.com/gofiber/fiber/v3"
)

// Services are the sheet domain services the routes call.
type Services struct {
	Columns      *sheetsvc.ColumnService
	Rows         *sheetsvc.RowService
	Permissions  *sheetsvc.PermissionService
	Imports      *sheetsvc.ImportService
	DefaultLimit int
}

// Register returns the registration of the sheet data routes.
func Register(svc Services) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		columnHandler := sheethdl.NewColumnHandler(svc.Columns)
		rowHandler := sheethdl.NewRowHandler(svc.Rows, svc.Permissions, svc.Imports, svc.DefaultLimit)
		permissionHandler := sheethdl.NewPermissionHandler(svc.Permissions)

		managers := r.Authed(authmodels.RoleAdmin, authmodels.RoleSupervisor)
		writers := r.Authed(authmodels.RoleAdmin, authmodels.RoleSupervisor, authmodels.RoleAgent)
		anyone := r.Authed()

		// Columns
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPost, "/:id/columns", managers, columnHandler.HandleDefine)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "/:id/columns", anyone, columnHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/columns", fiber.MethodGet, "/:id", anyone, columnHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/columns", fiber.MethodPut, "/:id", managers, columnHandler.HandleUpdate)
		apirouter.RegisterRouteWithMiddleware(v1, "/columns", fiber.MethodDelete, "/:id", managers, columnHandler.HandleDelete)

		// Rows
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "/:id/rows", anyone, rowHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPost, "/:id/rows", managers, rowHandler.HandleInsert)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodDelete, "/:id/rows", managers, rowHandler.HandleClear)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPost, "/:id/import", managers, rowHandler.HandleImport)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "/:id/rows/:rowNumber", anyone, rowHandler.HandleGet)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodGet, "/:id/rows/:rowNumber/access", anyone, rowHandler.HandleAccess)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPut, "/:id/rows/:rowNumber/cells/:dataKey", writers, rowHandler.HandleSetCell)

		// Row ranges
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPost, "/:id/permissions", managers, permissionHandler.HandleGrant)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodPut, "/:id/permissions/:agentId", managers, permissionHandler.HandleReplace)
		apirouter.RegisterRouteWithMiddleware(v1, "/sheets", fiber.MethodDelete, "/:id/agents/:agentId", managers, permissionHandler.HandleRevoke)
		return nil
	}
}
