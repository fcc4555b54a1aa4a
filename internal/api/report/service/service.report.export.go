package reportsvc

import (
	"context"
	"io"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportSheet = "Report"

// Export writes every filtered and sorted record as an xlsx workbook with
// one column per visible report column. Number columns are written as
// numbers.
func (s *ReportService) Export(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID, raw string, w io.Writer) (int, error) {
	res, err := s.Run(ctx, p, companyID, raw)
	if err != nil {
		return 0, err
	}
	if err := WriteWorkbook(w, res.Records, res.Columns); err != nil {
		return 0, err
	}

	logger.LogAction(logger.AuditAction{
		Action:       "report.export",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceType: "report",
		ResourceID:   companyID.Hex(),
		Details:      map[string]interface{}{"records": len(res.Records)},
	})
	return len(res.Records), nil
}

// WriteWorkbook renders records under a header row of the visible columns.
func WriteWorkbook(w io.Writer, records []*reportmodels.Record, columns []reportmodels.Column) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	var shown []reportmodels.Column
	for _, c := range columns {
		if c.Visible {
			shown = append(shown, c)
		}
	}

	header := make([]interface{}, len(shown))
	for i, c := range shown {
		header[i] = c.Key
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range records {
		row := make([]interface{}, len(shown))
		for j, c := range shown {
			value := r.Get(c.Key)
			if c.Type == reportmodels.TypeNumber {
				if n, ok := parseNumber(value); ok {
					row[j] = n
					continue
				}
			}
			row[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
