package global

import (
	"errors"
	"regexp"
	"strings"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var dataKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// InitValidator creates Validate and registers the custom tags.
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("object_id", validateObjectID)
	_ = Validate.RegisterValidation("data_key", validateDataKey)
	_ = Validate.RegisterValidation("column_type", validateOneOf("text", "number", "date", "select", "phone"))
	_ = Validate.RegisterValidation("role", validateOneOf("admin", "supervisor", "agent", "partner"))
	_ = Validate.RegisterValidation("member_role", validateOneOf("supervisor", "agent", "partner"))
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, pattern := range []string{
		"<script", "javascript:", "onerror=", "onload=", "onclick=",
		"onmouseover=", "eval(", "document.cookie", "<iframe", "<object", "<embed",
	} {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateObjectID accepts a 24 hex character id. Empty strings pass so the
// tag composes with omitempty.
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return primitive.IsValidObjectID(value)
}

func validateDataKey(fl validator.FieldLevel) bool {
	return dataKeyPattern.MatchString(fl.Field().String())
}

func validateOneOf(values ...string) validator.Func {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

// ValidateStruct runs Validate against s and converts failures into a
// ValidationFailure listing the offending fields.
func ValidateStruct(s interface{}) error {
	if Validate == nil {
		InitValidator()
	}
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.InvalidFormat("Payload could not be validated", err)
	}
	details := make([]map[string]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
			"param": fe.Param(),
		})
	}
	return common.Validation(common.MsgValidation, details)
}

// IsDataKey reports whether key can name a row data field.
func IsDataKey(key string) bool {
	return dataKeyPattern.MatchString(key)
}
