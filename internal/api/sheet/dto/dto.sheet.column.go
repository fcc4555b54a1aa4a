// Package sheetdto holds request payloads of the column, row and permission
// endpoints.
package sheetdto

// SelectOptionInput is one choice of a select column.
type SelectOptionInput struct {
	Value string `json:"value" validate:"required,max=200,no_xss"`
	Label string `json:"label" validate:"max=200,no_xss"`
}

// ColumnCreateInput is the body of POST /sheets/:id/columns. Visibility and
// editability default to true when omitted.
type ColumnCreateInput struct {
	Name           string              `json:"name" validate:"required,max=200,no_xss"`
	DataKey        string              `json:"dataKey" validate:"required,max=64,data_key"`
	Type           string              `json:"type" validate:"required,column_type"`
	VisibleToUser  *bool               `json:"visibleToUser,omitempty"`
	EditableByUser *bool               `json:"editableByUser,omitempty"`
	IsRequired     bool                `json:"isRequired,omitempty"`
	Order          *int                `json:"order,omitempty" validate:"omitempty,min=0"`
	AgentID        string              `json:"agentId,omitempty" validate:"omitempty,object_id"`
	Options        []SelectOptionInput `json:"options,omitempty" validate:"omitempty,dive"`
	PhoneNumbers   []string            `json:"phoneNumbers,omitempty" validate:"omitempty,dive,required,max=32"`
}

// ColumnUpdateInput is the body of PUT /columns/:id. Nil fields are left
// unchanged.
type ColumnUpdateInput struct {
	Name           *string              `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	DataKey        *string              `json:"dataKey,omitempty" validate:"omitempty,max=64,data_key"`
	Type           *string              `json:"type,omitempty" validate:"omitempty,column_type"`
	VisibleToUser  *bool                `json:"visibleToUser,omitempty"`
	EditableByUser *bool                `json:"editableByUser,omitempty"`
	IsRequired     *bool                `json:"isRequired,omitempty"`
	Order          *int                 `json:"order,omitempty" validate:"omitempty,min=0"`
	Options        *[]SelectOptionInput `json:"options,omitempty" validate:"omitempty,dive"`
	PhoneNumbers   *[]string            `json:"phoneNumbers,omitempty" validate:"omitempty,dive,required,max=32"`
}
