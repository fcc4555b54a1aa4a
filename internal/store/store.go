// Package store declares the persistence contracts of every entity. The
// mongostore package backs them with MongoDB and the memory package with
// mutex-guarded maps.
package store

import (
	"context"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store groups one implementation of every entity store.
type Store struct {
	Users     UserStore
	Companies CompanyStore
	Projects  ProjectStore
	Excels    ExcelStore
	Sheets    SheetStore
	Columns   ColumnStore
	Rows      RowStore
}

// Fields is a $set payload keyed by persisted field name.
type Fields map[string]interface{}

type UserStore interface {
	Insert(ctx context.Context, u authmodels.User) (authmodels.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (authmodels.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]authmodels.User, error)
	FindAll(ctx context.Context) ([]authmodels.User, error)
}

type CompanyStore interface {
	Insert(ctx context.Context, c hiermodels.Company) (hiermodels.Company, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Company, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]hiermodels.Company, error)
	FindAll(ctx context.Context) ([]hiermodels.Company, error)
	Update(ctx context.Context, id primitive.ObjectID, set Fields) (hiermodels.Company, error)
	AddChannel(ctx context.Context, id primitive.ObjectID, channel string) (hiermodels.Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProjectFilter narrows project lookups. Empty fields do not filter.
type ProjectFilter struct {
	IDs            []primitive.ObjectID
	CompanyIDs     []primitive.ObjectID
	SupervisorID   primitive.ObjectID
	AgentID        primitive.ObjectID
	PartnerID      primitive.ObjectID
	IncludeDeleted bool
}

type ProjectStore interface {
	Insert(ctx context.Context, p hiermodels.Project) (hiermodels.Project, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Project, error)
	Find(ctx context.Context, filter ProjectFilter) ([]hiermodels.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set Fields) (hiermodels.Project, error)
	// AddToSet and Pull change one of the hiermodels.ProjectField* arrays.
	AddToSet(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error
	Pull(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExcelFilter narrows excel lookups.
type ExcelFilter struct {
	IDs        []primitive.ObjectID
	ProjectIDs []primitive.ObjectID
}

type ExcelStore interface {
	Insert(ctx context.Context, e hiermodels.Excel) (hiermodels.Excel, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Excel, error)
	Find(ctx context.Context, filter ExcelFilter) ([]hiermodels.Excel, error)
	Count(ctx context.Context, filter ExcelFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set Fields) (hiermodels.Excel, error)
	// AddToSet and Pull change one of the hiermodels.ExcelField* arrays.
	AddToSet(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error
	Pull(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SheetFilter narrows sheet lookups.
type SheetFilter struct {
	IDs        []primitive.ObjectID
	ExcelIDs   []primitive.ObjectID
	ProjectIDs []primitive.ObjectID
	AgentID    primitive.ObjectID
}

type SheetStore interface {
	Insert(ctx context.Context, s hiermodels.Sheet) (hiermodels.Sheet, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Sheet, error)
	Find(ctx context.Context, filter SheetFilter) ([]hiermodels.Sheet, error)
	Count(ctx context.Context, filter SheetFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set Fields) (hiermodels.Sheet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	PushColumn(ctx context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error
	UpdateColumnBinding(ctx context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error
	PullColumn(ctx context.Context, id, columnID primitive.ObjectID) error

	// GrantRange adds the agent to agentIds and appends the range in one
	// atomic update.
	GrantRange(ctx context.Context, id primitive.ObjectID, perm hiermodels.AgentRowPermission) (hiermodels.Sheet, error)
	// ReplaceAgentRanges swaps every range of the agent for ranges, provided
	// the sheet is still at expectedVersion. A moved version yields
	// common.ErrVersionConflict.
	ReplaceAgentRanges(ctx context.Context, id, agentID primitive.ObjectID, ranges []hiermodels.AgentRowPermission, expectedVersion int64) (hiermodels.Sheet, error)
	// RevokeAgent pulls the agent from agentIds together with its ranges.
	RevokeAgent(ctx context.Context, id, agentID primitive.ObjectID) (hiermodels.Sheet, error)
}

type ColumnStore interface {
	Insert(ctx context.Context, c sheetmodels.Column) (sheetmodels.Column, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (sheetmodels.Column, error)
	// FindBySheets returns columns ordered by sheet, then order, then
	// insertion.
	FindBySheets(ctx context.Context, sheetIDs ...primitive.ObjectID) ([]sheetmodels.Column, error)
	DataKeyExists(ctx context.Context, sheetID primitive.ObjectID, dataKey string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, set Fields) (sheetmodels.Column, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountBySheet(ctx context.Context, sheetID primitive.ObjectID) (int64, error)
}

// RowRange is an inclusive row number range of one sheet.
type RowRange struct {
	SheetID primitive.ObjectID
	Start   int
	End     int
}

// RowFilter selects rows of SheetIDs. With RangesOnly set, a row must also
// fall inside one of the Ranges of its sheet.
type RowFilter struct {
	SheetIDs   []primitive.ObjectID
	RangesOnly bool
	Ranges     []RowRange
}

// Matches reports whether a row passes the filter.
func (f RowFilter) Matches(sheetID primitive.ObjectID, rowNumber int) bool {
	inSheets := false
	for _, id := range f.SheetIDs {
		if id == sheetID {
			inSheets = true
			break
		}
	}
	if !inSheets {
		return false
	}
	if !f.RangesOnly {
		return true
	}
	for _, r := range f.Ranges {
		if r.SheetID == sheetID && r.Start <= rowNumber && rowNumber <= r.End {
			return true
		}
	}
	return false
}

type RowStore interface {
	// InsertMany writes rows in order; a duplicate (sheetId,rowNumber) stops
	// the batch with a Conflict and reports how many were written.
	InsertMany(ctx context.Context, rows []sheetmodels.SheetRow) (int, error)
	FindOne(ctx context.Context, sheetID primitive.ObjectID, rowNumber int) (sheetmodels.SheetRow, error)
	// Page returns rows ordered by sheetId then rowNumber, skipping skip rows.
	Page(ctx context.Context, filter RowFilter, skip, limit int64) ([]sheetmodels.SheetRow, error)
	Count(ctx context.Context, filter RowFilter) (int64, error)
	FindAll(ctx context.Context, filter RowFilter) ([]sheetmodels.SheetRow, error)
	// SetCell upserts data.<dataKey> on the row, creating the row if needed.
	SetCell(ctx context.Context, sheetID primitive.ObjectID, rowNumber int, dataKey string, value interface{}) (sheetmodels.SheetRow, error)
	MaxRowNumber(ctx context.Context, sheetID primitive.ObjectID) (int, error)
	DeleteBySheet(ctx context.Context, sheetID primitive.ObjectID) (int64, error)
}
