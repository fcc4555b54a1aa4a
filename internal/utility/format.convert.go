package utility

import (
	"strconv"
	"strings"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID parses a hex id, reporting a validation error naming field.
func String2ObjectID(field, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, common.Validation("Invalid "+field, map[string]string{"field": field, "value": id})
	}
	return oid, nil
}

// StringArray2ObjectIDArray parses every id or fails on the first bad one.
func StringArray2ObjectIDArray(field string, ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := String2ObjectID(field, id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// ParseIntParam reads a decimal query parameter, returning def when empty.
func ParseIntParam(name, value string, def int64) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, common.Validation(name+" must be an integer", map[string]string{"field": name, "value": value})
	}
	return n, nil
}
