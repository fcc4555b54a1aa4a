// Package middleware holds the Fiber middleware of the API: bearer
// authentication and role gating.
package middleware

import (
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// HandleErrorResponse writes err in the standard error envelope.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, body := basehdl.ErrorBody(err)
	return basehdl.JSONResponse(c, status, body)
}
