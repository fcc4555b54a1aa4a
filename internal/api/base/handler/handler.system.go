package basehdl

import (
	"context"
	"time"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/gofiber/fiber/v3"
)

// Pinger checks a backing service.
type Pinger func(ctx context.Context) error

// SystemHandler serves health checks.
type SystemHandler struct {
	BaseHandler
	pingDB Pinger
}

// NewSystemHandler builds a SystemHandler. A nil pingDB reports the database
// as not used, which is the case for the in-memory store.
func NewSystemHandler(pingDB Pinger) *SystemHandler {
	return &SystemHandler{pingDB: pingDB}
}

// HandleHealth reports API and database status.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	services := fiber.Map{"api": "ok"}
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if h.pingDB == nil {
		services["database"] = "memory"
		return h.HandleResponse(c, health, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.pingDB(ctx); err != nil {
		health["status"] = "degraded"
		services["database"] = "error"
		health["database_error"] = err.Error()
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Service degraded",
			"data":    health,
			"status":  "error",
		})
	}
	services["database"] = "ok"
	return h.HandleResponse(c, health, nil)
}
