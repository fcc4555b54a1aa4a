package global

import (
	"testing"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columnInput struct {
	Name    string `validate:"required,no_xss"`
	DataKey string `validate:"required,data_key"`
	Type    string `validate:"required,column_type"`
	SheetID string `validate:"omitempty,object_id"`
}

func TestValidateStruct(t *testing.T) {
	InitValidator()

	t.Run("valid", func(t *testing.T) {
		err := ValidateStruct(columnInput{Name: "Phone", DataKey: "phone_1", Type: "phone", SheetID: "65a1b2c3d4e5f6a7b8c9d0e1"})
		require.NoError(t, err)
	})

	t.Run("bad type and key", func(t *testing.T) {
		err := ValidateStruct(columnInput{Name: "Phone", DataKey: "1phone", Type: "currency"})
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))

		var apiErr *common.Error
		require.ErrorAs(t, err, &apiErr)
		details, ok := apiErr.Details.([]map[string]string)
		require.True(t, ok)
		assert.Len(t, details, 2)
	})

	t.Run("xss", func(t *testing.T) {
		err := ValidateStruct(columnInput{Name: "<script>x</script>", DataKey: "a", Type: "text"})
		assert.Error(t, err)
	})
}
