package sheetsvc

import (
	"context"
	"io"
	"strconv"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const importChunkSize = 500

// ImportResult summarizes one workbook import.
type ImportResult struct {
	BatchID        string   `json:"batchId"`
	Inserted       int      `json:"inserted"`
	FirstRow       int      `json:"firstRow,omitempty"`
	LastRow        int      `json:"lastRow,omitempty"`
	UnknownHeaders []string `json:"unknownHeaders"`
}

// ImportService loads xlsx workbooks into sheet rows.
type ImportService struct {
	store *store.Store
	rows  *RowService
}

func NewImportService(st *store.Store, rows *RowService) *ImportService {
	return &ImportService{store: st, rows: rows}
}

// Import reads the first worksheet of the workbook, or the one named
// worksheet. The first row holds headers matched case-insensitively to
// column names or data keys; every further non-empty row becomes a sheet
// row numbered after the sheet's current last row.
func (s *ImportService) Import(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, r io.Reader, worksheet string) (ImportResult, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return ImportResult{}, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, common.InvalidFormat("Upload is not an xlsx workbook", err)
	}
	defer f.Close()

	if worksheet == "" {
		worksheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	cells, err := f.GetRows(worksheet)
	if err != nil {
		return ImportResult{}, common.Validation("Worksheet cannot be read", map[string]string{"worksheet": worksheet, "error": err.Error()})
	}
	if len(cells) < 2 {
		return ImportResult{}, common.Validation("Worksheet has no data rows", map[string]string{"worksheet": worksheet})
	}

	columns, err := s.store.Columns.FindBySheets(ctx, sheetID)
	if err != nil {
		return ImportResult{}, err
	}
	targets, unknown := matchHeaders(cells[0], columns)
	if len(unknown) == len(cells[0]) {
		return ImportResult{}, common.Validation("No header matches a column of the sheet", map[string]interface{}{"headers": cells[0]})
	}

	next, err := s.rows.NextRowNumber(ctx, sheetID)
	if err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{BatchID: uuid.NewString(), UnknownHeaders: unknown}
	log := logger.WithContext(ctx).WithFields(logrus.Fields{
		"sheet_id": sheetID.Hex(),
		"batch_id": result.BatchID,
	})

	batch := make([]sheetmodels.SheetRow, 0, importChunkSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.store.Rows.InsertMany(ctx, batch)
		result.Inserted += n
		batch = batch[:0]
		return err
	}

	for _, line := range cells[1:] {
		data := map[string]interface{}{}
		for i, raw := range line {
			target, ok := targets[i]
			value := strings.TrimSpace(raw)
			if !ok || value == "" {
				continue
			}
			data[target.DataKey] = cellValue(target.Type, value)
		}
		if len(data) == 0 {
			continue
		}
		if result.FirstRow == 0 {
			result.FirstRow = next
		}
		result.LastRow = next
		batch = append(batch, sheetmodels.SheetRow{SheetID: sheetID, RowNumber: next, Data: data})
		next++
		if len(batch) == importChunkSize {
			if err := flush(); err != nil {
				log.WithError(err).WithField("inserted", result.Inserted).Error("Import stopped")
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		log.WithError(err).WithField("inserted", result.Inserted).Error("Import stopped")
		return result, err
	}

	logger.LogAction(logger.AuditAction{
		Action:       "rows.import",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   sheetID.Hex(),
		ResourceType: "sheet",
		Details: map[string]interface{}{
			"batchId":  result.BatchID,
			"inserted": result.Inserted,
			"firstRow": result.FirstRow,
			"lastRow":  result.LastRow,
		},
	})
	return result, nil
}

// matchHeaders maps header positions to columns. Unmatched headers are
// returned in order.
func matchHeaders(headers []string, columns []sheetmodels.Column) (map[int]sheetmodels.Column, []string) {
	targets := make(map[int]sheetmodels.Column, len(headers))
	unknown := []string{}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		found := false
		for _, c := range columns {
			if strings.EqualFold(h, c.DataKey) || strings.EqualFold(h, c.Name) {
				targets[i] = c
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, h)
		}
	}
	return targets, unknown
}

// cellValue keeps text as is and stores number columns as numbers when the
// cell parses.
func cellValue(t sheetmodels.ColumnType, raw string) interface{} {
	if t == sheetmodels.ColumnTypeNumber {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
			return f
		}
	}
	return raw
}
