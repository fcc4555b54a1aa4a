package sheetdto

// RowInput is one row of a bulk insert.
type RowInput struct {
	RowNumber int                    `json:"rowNumber" validate:"required,min=1"`
	Data      map[string]interface{} `json:"data"`
}

// RowsInsertInput is the body of POST /sheets/:id/rows.
type RowsInsertInput struct {
	Rows []RowInput `json:"rows" validate:"required,min=1,max=5000,dive"`
}

// CellInput is the body of PUT /sheets/:id/rows/:rowNumber/cells/:dataKey.
type CellInput struct {
	Value interface{} `json:"value"`
}

// RangeInput is one inclusive row range.
type RangeInput struct {
	StartRow int `json:"startRow" validate:"required,min=1"`
	EndRow   int `json:"endRow" validate:"required,min=1,gtefield=StartRow"`
}

// GrantInput is the body of POST /sheets/:id/permissions.
type GrantInput struct {
	AgentID  string `json:"agentId" validate:"required,object_id"`
	StartRow int    `json:"startRow" validate:"required,min=1"`
	EndRow   int    `json:"endRow" validate:"required,min=1,gtefield=StartRow"`
}

// ReplaceRangesInput is the body of PUT /sheets/:id/permissions/:agentId.
type ReplaceRangesInput struct {
	Ranges []RangeInput `json:"ranges" validate:"dive"`
}
