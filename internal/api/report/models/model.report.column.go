package models

// Inferred column types.
const (
	TypeText   = "text"
	TypeDate   = "date"
	TypeNumber = "number"
)

// Column is a report column inferred from the records.
type Column struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Visible bool   `json:"visible"`
}

// Page is one page of a filtered and sorted report.
type Page struct {
	Items    []*Record `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Columns  []Column  `json:"columns"`
}

// ColumnStats summarizes one column of the filtered report. Repeated values
// count once in both figures and empty values are ignored.
type ColumnStats struct {
	Column          string  `json:"column"`
	DistinctCount   int     `json:"distinctCount"`
	NumericDistinct int     `json:"numericDistinct"`
	NumericSum      float64 `json:"numericSum"`
}
