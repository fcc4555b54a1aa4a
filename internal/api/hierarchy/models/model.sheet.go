package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SheetColumn binds a column definition to a sheet.
type SheetColumn struct {
	ColumnID primitive.ObjectID  `json:"columnId" bson:"columnId"`
	Editable bool                `json:"editable" bson:"editable"`
	Required bool                `json:"required" bson:"required"`
	AgentID  *primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty"`
	Order    int                 `json:"order" bson:"order"`
}

// AgentRowPermission grants an agent the inclusive row range [StartRow, EndRow].
type AgentRowPermission struct {
	AgentID  primitive.ObjectID `json:"agentId" bson:"agentId"`
	StartRow int                `json:"startRow" bson:"startRow"`
	EndRow   int                `json:"endRow" bson:"endRow"`
}

// Covers reports whether rowNumber lies inside the range.
func (p AgentRowPermission) Covers(rowNumber int) bool {
	return p.StartRow <= rowNumber && rowNumber <= p.EndRow
}

// Sheet is a tab of an Excel. Version increments on every change to
// agentIds or agentRowPermissions.
type Sheet struct {
	ID                  primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ExcelID             primitive.ObjectID   `json:"excelId" bson:"excelId" index:"single:1"`
	ProjectID           primitive.ObjectID   `json:"projectId" bson:"projectId" index:"single:1"`
	Name                string               `json:"name" bson:"name"`
	Description         string               `json:"description,omitempty" bson:"description,omitempty"`
	AgentIDs            []primitive.ObjectID `json:"agentIds" bson:"agentIds" index:"single:1"`
	Columns             []SheetColumn        `json:"columns" bson:"columns"`
	AgentRowPermissions []AgentRowPermission `json:"agentRowPermissions" bson:"agentRowPermissions"`
	Version             int64                `json:"version" bson:"version"`
	CreatedAt           int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt           int64                `json:"updatedAt" bson:"updatedAt"`
}

// RangesFor returns every permission entry of agentID, in stored order.
func (s *Sheet) RangesFor(agentID primitive.ObjectID) []AgentRowPermission {
	var out []AgentRowPermission
	for _, p := range s.AgentRowPermissions {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out
}

// AgentCovers reports whether any of the agent's ranges contains rowNumber.
func (s *Sheet) AgentCovers(agentID primitive.ObjectID, rowNumber int) bool {
	for _, p := range s.AgentRowPermissions {
		if p.AgentID == agentID && p.Covers(rowNumber) {
			return true
		}
	}
	return false
}
