package sheetsvc

import (
	"context"
	"fmt"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RowPage is one window of a sheet's rows. Total counts every row the caller
// may see in the sheet, regardless of page and skip: all stored rows for
// admins and supervisors, but only the rows inside its ranges for an agent.
type RowPage struct {
	Data  []sheetmodels.SheetRow `json:"data"`
	Total int64                  `json:"total"`
	Page  int64                  `json:"page"`
	Limit int64                  `json:"limit"`
}

// PageParams addresses a window of rows. The window starts at
// (Page-1)*Limit+Skip.
type PageParams struct {
	Page  int64
	Limit int64
	Skip  int64
}

// Offset returns the number of rows to pass over.
func (p PageParams) Offset() int64 {
	return (p.Page-1)*p.Limit + p.Skip
}

// RowService reads and writes sheet rows.
type RowService struct {
	store    *store.Store
	maxLimit int64
}

// NewRowService returns a RowService capping page sizes at maxLimit.
func NewRowService(st *store.Store, maxLimit int) *RowService {
	if maxLimit < 1 {
		maxLimit = 1000
	}
	return &RowService{store: st, maxLimit: int64(maxLimit)}
}

// checkPage validates params and caps the limit.
func (s *RowService) checkPage(params PageParams) (PageParams, error) {
	switch {
	case params.Page < 1:
		return params, common.Validation("page must be at least 1", map[string]int64{"page": params.Page})
	case params.Limit < 1:
		return params, common.Validation("limit must be at least 1", map[string]int64{"limit": params.Limit})
	case params.Skip < 0:
		return params, common.Validation("skip must not be negative", map[string]int64{"skip": params.Skip})
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// GetRows returns a window of the sheet ordered by row number.
func (s *RowService) GetRows(ctx context.Context, sheetID primitive.ObjectID, params PageParams) (RowPage, error) {
	return s.page(ctx, sheetID, store.RowFilter{SheetIDs: []primitive.ObjectID{sheetID}}, params)
}

func (s *RowService) page(ctx context.Context, sheetID primitive.ObjectID, filter store.RowFilter, params PageParams) (RowPage, error) {
	params, err := s.checkPage(params)
	if err != nil {
		return RowPage{}, err
	}
	if _, err := s.store.Sheets.FindByID(ctx, sheetID); err != nil {
		return RowPage{}, err
	}
	total, err := s.store.Rows.Count(ctx, filter)
	if err != nil {
		return RowPage{}, err
	}
	rows, err := s.store.Rows.Page(ctx, filter, params.Offset(), params.Limit)
	if err != nil {
		return RowPage{}, err
	}
	return RowPage{Data: rows, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// GetRow returns one row of the sheet.
func (s *RowService) GetRow(ctx context.Context, sheetID primitive.ObjectID, rowNumber int) (sheetmodels.SheetRow, error) {
	if rowNumber < 1 {
		return sheetmodels.SheetRow{}, common.Validation("rowNumber must be at least 1", map[string]int{"rowNumber": rowNumber})
	}
	if _, err := s.store.Sheets.FindByID(ctx, sheetID); err != nil {
		return sheetmodels.SheetRow{}, err
	}
	return s.store.Rows.FindOne(ctx, sheetID, rowNumber)
}

// SetCell upserts one value into the row's data, creating the row when it
// does not exist yet. The value is not checked against the column type.
func (s *RowService) SetCell(ctx context.Context, sheetID primitive.ObjectID, rowNumber int, dataKey string, value interface{}) (sheetmodels.SheetRow, error) {
	if rowNumber < 1 {
		return sheetmodels.SheetRow{}, common.Validation("rowNumber must be at least 1", map[string]int{"rowNumber": rowNumber})
	}
	if !global.IsDataKey(dataKey) {
		return sheetmodels.SheetRow{}, common.Validation("Invalid data key", map[string]string{"dataKey": dataKey})
	}
	if _, err := s.store.Sheets.FindByID(ctx, sheetID); err != nil {
		return sheetmodels.SheetRow{}, err
	}
	return s.store.Rows.SetCell(ctx, sheetID, rowNumber, dataKey, value)
}

// InsertRows writes rows in order. A row number repeated in the batch or
// already stored is a Conflict; rows before it stay written.
func (s *RowService) InsertRows(ctx context.Context, sheetID primitive.ObjectID, input []sheetdto.RowInput) (int, error) {
	if _, err := s.store.Sheets.FindByID(ctx, sheetID); err != nil {
		return 0, err
	}
	seen := make(map[int]bool, len(input))
	rows := make([]sheetmodels.SheetRow, 0, len(input))
	for _, in := range input {
		if in.RowNumber < 1 {
			return 0, common.Validation("rowNumber must be at least 1", map[string]int{"rowNumber": in.RowNumber})
		}
		if seen[in.RowNumber] {
			return 0, common.Conflict(fmt.Sprintf("Row %d appears twice in the batch", in.RowNumber), map[string]int{"rowNumber": in.RowNumber})
		}
		seen[in.RowNumber] = true
		data := in.Data
		if data == nil {
			data = map[string]interface{}{}
		}
		rows = append(rows, sheetmodels.SheetRow{SheetID: sheetID, RowNumber: in.RowNumber, Data: data})
	}

	n, err := s.store.Rows.InsertMany(ctx, rows)
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"sheet_id": sheetID.Hex(),
		"inserted": n,
		"received": len(rows),
	}).Info("Rows inserted")
	return n, err
}

// InsertRowsFor is InsertRows on behalf of p, who must manage the sheet's
// project.
func (s *RowService) InsertRowsFor(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, input []sheetdto.RowInput) (int, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return 0, err
	}
	return s.InsertRows(ctx, sheetID, input)
}

// NextRowNumber returns the row number following the sheet's last row.
func (s *RowService) NextRowNumber(ctx context.Context, sheetID primitive.ObjectID) (int, error) {
	last, err := s.store.Rows.MaxRowNumber(ctx, sheetID)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// ClearRows deletes every row of the sheet.
func (s *RowService) ClearRows(ctx context.Context, sheetID primitive.ObjectID) (int64, error) {
	if _, err := s.store.Sheets.FindByID(ctx, sheetID); err != nil {
		return 0, err
	}
	n, err := s.store.Rows.DeleteBySheet(ctx, sheetID)
	if err != nil {
		return 0, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"sheet_id": sheetID.Hex(),
		"deleted":  n,
	}).Warn("Sheet rows cleared")
	return n, nil
}

// ClearRowsFor is ClearRows on behalf of p, who must manage the sheet's
// project.
func (s *RowService) ClearRowsFor(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID) (int64, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return 0, err
	}
	return s.ClearRows(ctx, sheetID)
}
