package hierdto

// ExcelCreateInput is the body of POST /excels.
type ExcelCreateInput struct {
	ProjectID   string `json:"projectId" validate:"required,object_id"`
	Name        string `json:"name" validate:"required,max=200,no_xss"`
	Description string `json:"description,omitempty" validate:"max=2000,no_xss"`
}

// SheetCreateInput is the body of POST /sheets.
type SheetCreateInput struct {
	ExcelID     string `json:"excelId" validate:"required,object_id"`
	Name        string `json:"name" validate:"required,max=200,no_xss"`
	Description string `json:"description,omitempty" validate:"max=2000,no_xss"`
}

// NamedUpdateInput is the body of PUT /excels/:id and PUT /sheets/:id.
type NamedUpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
}
