// Package models defines column definitions and sheet rows.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ColumnType is the declared type of a column.
type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeDate   ColumnType = "date"
	ColumnTypeSelect ColumnType = "select"
	ColumnTypePhone  ColumnType = "phone"
)

// ColumnTypes lists the accepted column types.
var ColumnTypes = []ColumnType{ColumnTypeText, ColumnTypeNumber, ColumnTypeDate, ColumnTypeSelect, ColumnTypePhone}

// IsValid reports whether t is an accepted column type.
func (t ColumnType) IsValid() bool {
	for _, ct := range ColumnTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// SelectOption is one choice of a select column.
type SelectOption struct {
	Value string `json:"value" bson:"value"`
	Label string `json:"label" bson:"label"`
}

// Column describes one data key of a sheet.
type Column struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SheetID        primitive.ObjectID `json:"sheetId" bson:"sheetId" index:"compound:column_datakey_unique"`
	Name           string             `json:"name" bson:"name"`
	DataKey        string             `json:"dataKey" bson:"dataKey" index:"compound:column_datakey_unique"`
	Type           ColumnType         `json:"type" bson:"type"`
	VisibleToUser  bool               `json:"visibleToUser" bson:"visibleToUser"`
	EditableByUser bool               `json:"editableByUser" bson:"editableByUser"`
	IsRequired     bool               `json:"isRequired" bson:"isRequired"`
	Order          int                `json:"order" bson:"order"`
	Options        []SelectOption     `json:"options,omitempty" bson:"options,omitempty"`
	PhoneNumbers   []string           `json:"phoneNumbers,omitempty" bson:"phoneNumbers,omitempty"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Normalize drops type-specific fields that do not apply to the column type
// and forces hidden columns to be read-only.
func (c *Column) Normalize() {
	if c.Type != ColumnTypeSelect {
		c.Options = nil
	}
	if c.Type != ColumnTypePhone {
		c.PhoneNumbers = nil
	}
	if !c.VisibleToUser {
		c.EditableByUser = false
	}
}
