package main

import (
	"errors"
	"strings"
	"time"

	authrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/router"
	hierrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/api/middleware"
	reportrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/api/router"
	sheetrouter "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/router"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/bootstrap"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

const healthPath = "/api/v1/system/health"

// errorCodeFor maps Fiber's own errors (unknown route, bad method, body too
// large) onto the API error codes.
func errorCodeFor(status int) common.ErrorCode {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		return common.ErrCodeValidationInput
	case fiber.StatusUnauthorized:
		return common.ErrCodeAuthToken
	case fiber.StatusForbidden:
		return common.ErrCodeAuthRole
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return common.ErrCodeNotFound
	}
	return common.ErrCodeInternalServer
}

// InitFiberApp builds the Fiber app with its middleware stack and every
// domain route.
func InitFiberApp(backend *bootstrap.Backend, svc *bootstrap.Services) *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:       "Avian Sheets API",
		ServerHeader:  "Avian Sheets API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		// xlsx uploads
		BodyLimit:       20 * 1024 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			var own *common.Error
			if errors.As(err, &own) {
				return middleware.HandleErrorResponse(c, err)
			}

			status := fiber.StatusInternalServerError
			message := common.MsgInternalError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
				message = fe.Message
			}
			code := errorCodeFor(status)

			logger.WithRequest(c).WithFields(map[string]interface{}{
				"code":      status,
				"errorCode": code.Code,
				"error":     err.Error(),
			}).Error("Request error")

			return c.Status(status).JSON(fiber.Map{
				"code":    code.Code,
				"message": message,
				"status":  "error",
			})
		},
	})

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// Preflight requests must be answered before auth.
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "*" {
		allowOrigins = strings.Split(cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.StatusTooManyRequests,
					"message": common.MsgTooManyRequest,
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	err := router.SetupRoutes(app, svc.Tokens,
		router.RegisterSystem(backend.Ping),
		authrouter.Register(svc.Users),
		hierrouter.Register(svc.Store, svc.Users),
		sheetrouter.Register(sheetrouter.Services{
			Columns:      svc.Columns,
			Rows:         svc.Rows,
			Permissions:  svc.Permissions,
			Imports:      svc.Imports,
			DefaultLimit: cfg.Row_DefaultLimit,
		}),
		reportrouter.Register(svc.Reports),
	)
	if err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}
	return app
}
