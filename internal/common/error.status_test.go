package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NotFound("Sheet", "abc")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAccessDenied))
	assert.True(t, errors.Is(fmt.Errorf("load: %w", err), ErrNotFound))

	denied := AccessDenied("row outside range", nil)
	assert.True(t, errors.Is(denied, ErrAccessDenied))
	assert.False(t, errors.Is(denied, ErrNotFound))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validation("bad", nil)))
	assert.True(t, IsValidation(InvalidFormat("bad json", errors.New("eof"))))
	assert.False(t, IsValidation(Conflict("dup", nil)))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestConvertMongoError(t *testing.T) {
	assert.NoError(t, ConvertMongoError(nil))
	assert.True(t, errors.Is(ConvertMongoError(mongo.ErrNoDocuments), ErrNotFound))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	converted := ConvertMongoError(dup)
	assert.True(t, errors.Is(converted, ErrConflict))

	own := Validation("kept", nil)
	assert.Same(t, own, ConvertMongoError(own))

	var e *Error
	assert.True(t, errors.As(ConvertMongoError(errors.New("boom")), &e))
	assert.Equal(t, ErrCodeDatabase.Code, e.Code.Code)
	assert.Equal(t, StatusInternalServerError, e.StatusCode)
}
