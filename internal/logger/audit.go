package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction describes one auditable change: a range grant, a revoke, a
// cell write, a column definition.
type AuditAction struct {
	Action       string                 `json:"action"`
	UserID       string                 `json:"user_id"`
	Role         string                 `json:"role"`
	ResourceID   string                 `json:"resource_id"`
	ResourceType string                 `json:"resource_type"`
	Details      map[string]interface{} `json:"details"`
	Timestamp    time.Time              `json:"timestamp"`
}

// LogAction writes the action to the audit logger.
func LogAction(audit AuditAction) {
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}
	if audit.Details == nil {
		audit.Details = map[string]interface{}{}
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":        audit.Action,
		"user_id":       audit.UserID,
		"role":          audit.Role,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"details":       audit.Details,
		"timestamp":     audit.Timestamp,
	}).Info("Audit log")
}

// LogRequestAction audits an action and fills in request metadata from c.
func LogRequestAction(c fiber.Ctx, audit AuditAction) {
	if audit.Details == nil {
		audit.Details = map[string]interface{}{}
	}
	audit.Details["ip"] = c.IP()
	audit.Details["user_agent"] = c.Get("User-Agent")
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		audit.Details["request_id"] = requestID
	}
	if audit.UserID == "" {
		if uid, ok := c.Locals("user_id").(string); ok {
			audit.UserID = uid
		}
	}
	LogAction(audit)
}
