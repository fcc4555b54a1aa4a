// Package basehdl carries the response envelope and request parsing shared by
// every domain handler.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrincipalLocalsKey is where the auth middleware stores the caller.
const PrincipalLocalsKey = "principal"

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ErrorBody renders err in the error envelope. Unknown errors become a 500.
func ErrorBody(err error) (int, fiber.Map) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		}
	}
	return common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"status":  "error",
	}
}

// BaseHandler is embedded by domain handlers.
type BaseHandler struct{}

// HandleResponse writes data in the success envelope, or err in the error
// envelope.
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	return h.HandleResponseStatus(c, common.StatusOK, data, err)
}

// HandleResponseStatus is HandleResponse with a custom success status.
func (h *BaseHandler) HandleResponseStatus(c fiber.Ctx, status int, data interface{}, err error) error {
	if err != nil {
		code, body := ErrorBody(err)
		if code >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request failed")
		}
		return JSONResponse(c, code, body)
	}
	message := common.MsgSuccess
	if status == common.StatusCreated {
		message = common.MsgCreated
	}
	return JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": message,
		"data":    data,
		"status":  "success",
	})
}

// SafeHandler runs fn and turns a panic into a 500 response.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().WithField("stack", string(debug.Stack())).Errorf("Handler panic: %v", r)
			err = h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Unexpected error: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// ParseRequestBody decodes the JSON body into input, keeping numbers as
// json.Number, then validates it.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.InvalidFormat(common.MsgInvalidFormat, err)
	}
	return global.ValidateStruct(input)
}

// ParamObjectID parses the path parameter name as an ObjectID.
func (h *BaseHandler) ParamObjectID(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	return utility.String2ObjectID(name, c.Params(name))
}

// QueryObjectID parses an optional query parameter as an ObjectID.
func (h *BaseHandler) QueryObjectID(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Query(name)
	if raw == "" {
		return primitive.NilObjectID, nil
	}
	return utility.String2ObjectID(name, raw)
}

// Principal returns the caller stored by the auth middleware.
func (h *BaseHandler) Principal(c fiber.Ctx) (authmodels.Principal, error) {
	p, ok := c.Locals(PrincipalLocalsKey).(authmodels.Principal)
	if !ok {
		return authmodels.Principal{}, common.ErrTokenMissing
	}
	return p, nil
}
