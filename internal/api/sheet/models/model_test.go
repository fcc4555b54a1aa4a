package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnNormalize(t *testing.T) {
	t.Run("hidden column is never editable", func(t *testing.T) {
		c := Column{Type: ColumnTypeText, VisibleToUser: false, EditableByUser: true}
		c.Normalize()
		assert.False(t, c.EditableByUser)
	})

	t.Run("options only kept for select", func(t *testing.T) {
		opts := []SelectOption{{Value: "b", Label: "B"}, {Value: "a", Label: "A"}}
		sel := Column{Type: ColumnTypeSelect, VisibleToUser: true, Options: opts, PhoneNumbers: []string{"1"}}
		sel.Normalize()
		assert.Equal(t, opts, sel.Options)
		assert.Nil(t, sel.PhoneNumbers)

		txt := Column{Type: ColumnTypeText, Options: opts}
		txt.Normalize()
		assert.Nil(t, txt.Options)
	})

	t.Run("phone numbers only kept for phone", func(t *testing.T) {
		c := Column{Type: ColumnTypePhone, PhoneNumbers: []string{"+994"}}
		c.Normalize()
		assert.Equal(t, []string{"+994"}, c.PhoneNumbers)
	})
}

func TestColumnTypeIsValid(t *testing.T) {
	assert.True(t, ColumnTypeDate.IsValid())
	assert.False(t, ColumnType("email").IsValid())
}

func TestSheetRowProject(t *testing.T) {
	row := SheetRow{RowNumber: 1, Data: map[string]interface{}{"name": "A", "secret": "x"}}
	got := row.Project(map[string]bool{"name": true})
	assert.Equal(t, map[string]interface{}{"name": "A"}, got.Data)
	assert.Contains(t, row.Data, "secret")
}
