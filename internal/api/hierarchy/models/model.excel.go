package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Excel is a workbook inside a project.
type Excel struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID   primitive.ObjectID   `json:"projectId" bson:"projectId" index:"single:1"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	AgentIDs    []primitive.ObjectID `json:"agentIds" bson:"agentIds"`
	SheetIDs    []primitive.ObjectID `json:"sheetIds" bson:"sheetIds"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

const (
	ExcelFieldAgents = "agentIds"
	ExcelFieldSheets = "sheetIds"
)
