package hiersvc

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SheetService manages the sheets of excels.
type SheetService struct {
	store *store.Store
}

func NewSheetService(st *store.Store) *SheetService {
	return &SheetService{store: st}
}

// Create adds an empty sheet and links it into the excel's sheetIds.
func (s *SheetService) Create(ctx context.Context, p authmodels.Principal, input hierdto.SheetCreateInput) (hiermodels.Sheet, error) {
	excelID, err := utility.String2ObjectID("excelId", input.ExcelID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	excel, err := s.store.Excels.FindByID(ctx, excelID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	project, err := liveProject(ctx, s.store.Projects, excel.ProjectID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if err := CanManage(p, project); err != nil {
		return hiermodels.Sheet{}, err
	}

	created, err := s.store.Sheets.Insert(ctx, hiermodels.Sheet{
		ExcelID:             excelID,
		ProjectID:           excel.ProjectID,
		Name:                strings.TrimSpace(input.Name),
		Description:         strings.TrimSpace(input.Description),
		AgentIDs:            []primitive.ObjectID{},
		Columns:             []hiermodels.SheetColumn{},
		AgentRowPermissions: []hiermodels.AgentRowPermission{},
	})
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if err := s.store.Excels.AddToSet(ctx, excelID, hiermodels.ExcelFieldSheets, created.ID); err != nil {
		if delErr := s.store.Sheets.Delete(ctx, created.ID); delErr != nil {
			logger.WithContext(ctx).WithError(delErr).Error("Failed to remove unlinked sheet")
		}
		return hiermodels.Sheet{}, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"sheet_id": created.ID.Hex(),
		"excel_id": excelID.Hex(),
	}).Info("Sheet created")
	return created, nil
}

// List returns the sheets p may open, optionally of one excel. Agents see
// only sheets they are assigned to.
func (s *SheetService) List(ctx context.Context, p authmodels.Principal, excelID primitive.ObjectID) ([]hiermodels.Sheet, error) {
	filter := store.SheetFilter{}
	if !excelID.IsZero() {
		filter.ExcelIDs = []primitive.ObjectID{excelID}
	}
	scope, all, err := ProjectScope(ctx, s.store.Projects, p)
	if err != nil {
		return nil, err
	}
	if !all {
		if len(scope) == 0 {
			return []hiermodels.Sheet{}, nil
		}
		filter.ProjectIDs = scope
	}
	if p.Role == authmodels.RoleAgent {
		filter.AgentID = p.UserID
	}
	return s.store.Sheets.Find(ctx, filter)
}

// Get returns a sheet p may open.
func (s *SheetService) Get(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Sheet, error) {
	return OpenSheet(ctx, s.store, p, id)
}

// Update renames or re-describes a sheet.
func (s *SheetService) Update(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.NamedUpdateInput) (hiermodels.Sheet, error) {
	sheet, err := s.manageable(ctx, p, id)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	set := namedSet(input)
	if len(set) == 0 {
		return sheet, nil
	}
	return s.store.Sheets.Update(ctx, id, set)
}

// Delete removes a sheet that has neither columns nor rows and unlinks it
// from its excel.
func (s *SheetService) Delete(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) error {
	sheet, err := s.manageable(ctx, p, id)
	if err != nil {
		return err
	}
	columns, err := s.store.Columns.CountBySheet(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.store.Rows.Count(ctx, store.RowFilter{SheetIDs: []primitive.ObjectID{id}})
	if err != nil {
		return err
	}
	if columns > 0 || rows > 0 {
		return common.Conflict("Sheet still has columns or rows", map[string]interface{}{
			"sheetId": id.Hex(),
			"columns": columns,
			"rows":    rows,
		})
	}
	if err := s.store.Sheets.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Excels.Pull(ctx, sheet.ExcelID, hiermodels.ExcelFieldSheets, id); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("sheet_id", id.Hex()).Info("Sheet deleted")
	return nil
}

func (s *SheetService) manageable(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Sheet, error) {
	return ManageSheet(ctx, s.store, p, id)
}
