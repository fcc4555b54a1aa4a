package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SheetRow is one numbered row of a sheet. Data keys are expected, not
// enforced, to match column data keys.
type SheetRow struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	SheetID   primitive.ObjectID     `json:"sheetId" bson:"sheetId" index:"compound:sheet_row_unique"`
	RowNumber int                    `json:"rowNumber" bson:"rowNumber" index:"compound:sheet_row_unique"`
	Data      map[string]interface{} `json:"data" bson:"data"`
	CreatedAt int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64                  `json:"updatedAt" bson:"updatedAt"`
}

// Project returns a copy of the row whose data keeps only allowed keys.
func (r SheetRow) Project(allowed map[string]bool) SheetRow {
	data := make(map[string]interface{}, len(allowed))
	for k, v := range r.Data {
		if allowed[k] {
			data[k] = v
		}
	}
	r.Data = data
	return r
}
