// Package reportdto holds the report query payload.
package reportdto

// DateRange keeps records whose date column falls in [From, To]. Column
// defaults to the first inferred date column.
type DateRange struct {
	Column string `json:"column,omitempty"`
	From   string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Sort orders records by one column.
type Sort struct {
	Column    string `json:"column" validate:"required"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

type Pagination struct {
	Page     int `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize int `json:"pageSize,omitempty" validate:"omitempty,min=1,max=1000"`
}

// ReportQuery is the JSON document carried in the query parameter of the
// report endpoints. Filters map a column key to its accepted values.
type ReportQuery struct {
	Filters    map[string][]string `json:"filters,omitempty"`
	DateRange  *DateRange          `json:"dateRange,omitempty"`
	Search     string              `json:"search,omitempty" validate:"max=200"`
	Sort       *Sort               `json:"sort,omitempty"`
	Pagination Pagination          `json:"pagination"`
}
