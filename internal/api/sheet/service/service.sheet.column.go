// Package sheetsvc holds the column registry, the row store, the row-range
// permission resolver and the xlsx row importer.
package sheetsvc

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColumnService is the column registry of sheets.
type ColumnService struct {
	store *store.Store
}

func NewColumnService(st *store.Store) *ColumnService {
	return &ColumnService{store: st}
}

// Define adds a column to a sheet and binds it into the sheet's columns
// list. The data key must be free on the sheet and p must manage the
// sheet's project.
func (s *ColumnService) Define(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, input sheetdto.ColumnCreateInput) (sheetmodels.Column, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return sheetmodels.Column{}, err
	}
	columnType := sheetmodels.ColumnType(input.Type)
	if !columnType.IsValid() {
		return sheetmodels.Column{}, common.Validation("Unknown column type", map[string]string{"type": input.Type})
	}

	dataKey := strings.TrimSpace(input.DataKey)
	if err := s.ensureKeyFree(ctx, sheetID, dataKey, primitive.NilObjectID); err != nil {
		return sheetmodels.Column{}, err
	}

	column := sheetmodels.Column{
		SheetID:        sheetID,
		Name:           strings.TrimSpace(input.Name),
		DataKey:        dataKey,
		Type:           columnType,
		VisibleToUser:  boolOr(input.VisibleToUser, true),
		EditableByUser: boolOr(input.EditableByUser, true),
		IsRequired:     input.IsRequired,
		Options:        toOptions(input.Options),
		PhoneNumbers:   input.PhoneNumbers,
	}
	if input.Order != nil {
		column.Order = *input.Order
	} else {
		count, err := s.store.Columns.CountBySheet(ctx, sheetID)
		if err != nil {
			return sheetmodels.Column{}, err
		}
		column.Order = int(count)
	}
	column.Normalize()

	var agentID *primitive.ObjectID
	if input.AgentID != "" {
		id, err := utility.String2ObjectID("agentId", input.AgentID)
		if err != nil {
			return sheetmodels.Column{}, err
		}
		agentID = &id
	}

	created, err := s.store.Columns.Insert(ctx, column)
	if err != nil {
		return sheetmodels.Column{}, err
	}
	if err := s.store.Sheets.PushColumn(ctx, sheetID, binding(created, agentID)); err != nil {
		if delErr := s.store.Columns.Delete(ctx, created.ID); delErr != nil {
			logger.WithContext(ctx).WithError(delErr).Error("Failed to remove unbound column")
		}
		return sheetmodels.Column{}, err
	}

	logger.LogAction(logger.AuditAction{
		Action:       "column.define",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   created.ID.Hex(),
		ResourceType: "column",
		Details:      map[string]interface{}{"sheetId": sheetID.Hex(), "dataKey": created.DataKey, "type": created.Type},
	})
	return created, nil
}

// List returns the columns of a sheet p may open, in rendering order.
// Agents and partners only get visible columns.
func (s *ColumnService) List(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID) ([]sheetmodels.Column, error) {
	if _, err := hiersvc.OpenSheet(ctx, s.store, p, sheetID); err != nil {
		return nil, err
	}
	columns, err := s.store.Columns.FindBySheets(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if !p.IsRestricted() {
		return columns, nil
	}
	visible := make([]sheetmodels.Column, 0, len(columns))
	for _, c := range columns {
		if c.VisibleToUser {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Get returns one column. A hidden column does not exist for agents and
// partners.
func (s *ColumnService) Get(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (sheetmodels.Column, error) {
	column, err := s.store.Columns.FindByID(ctx, id)
	if err != nil {
		return sheetmodels.Column{}, err
	}
	if _, err := hiersvc.OpenSheet(ctx, s.store, p, column.SheetID); err != nil {
		return sheetmodels.Column{}, err
	}
	if p.IsRestricted() && !column.VisibleToUser {
		return sheetmodels.Column{}, common.NotFound("Column", id.Hex())
	}
	return column, nil
}

// Update merges the non-nil fields of input into the column. Existing row
// data is not checked against a new type.
func (s *ColumnService) Update(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input sheetdto.ColumnUpdateInput) (sheetmodels.Column, error) {
	column, err := s.store.Columns.FindByID(ctx, id)
	if err != nil {
		return sheetmodels.Column{}, err
	}
	sheet, err := hiersvc.ManageSheet(ctx, s.store, p, column.SheetID)
	if err != nil {
		return sheetmodels.Column{}, err
	}

	if input.Name != nil {
		column.Name = strings.TrimSpace(*input.Name)
	}
	if input.DataKey != nil && strings.TrimSpace(*input.DataKey) != column.DataKey {
		key := strings.TrimSpace(*input.DataKey)
		if err := s.ensureKeyFree(ctx, column.SheetID, key, column.ID); err != nil {
			return sheetmodels.Column{}, err
		}
		column.DataKey = key
	}
	if input.Type != nil {
		columnType := sheetmodels.ColumnType(*input.Type)
		if !columnType.IsValid() {
			return sheetmodels.Column{}, common.Validation("Unknown column type", map[string]string{"type": *input.Type})
		}
		column.Type = columnType
	}
	if input.VisibleToUser != nil {
		column.VisibleToUser = *input.VisibleToUser
	}
	if input.EditableByUser != nil {
		column.EditableByUser = *input.EditableByUser
	}
	if input.IsRequired != nil {
		column.IsRequired = *input.IsRequired
	}
	if input.Order != nil {
		column.Order = *input.Order
	}
	if input.Options != nil {
		column.Options = toOptions(*input.Options)
	}
	if input.PhoneNumbers != nil {
		column.PhoneNumbers = *input.PhoneNumbers
	}
	column.Normalize()

	updated, err := s.store.Columns.Update(ctx, id, store.Fields{
		"name":           column.Name,
		"dataKey":        column.DataKey,
		"type":           column.Type,
		"visibleToUser":  column.VisibleToUser,
		"editableByUser": column.EditableByUser,
		"isRequired":     column.IsRequired,
		"order":          column.Order,
		"options":        column.Options,
		"phoneNumbers":   column.PhoneNumbers,
	})
	if err != nil {
		return sheetmodels.Column{}, err
	}

	var agentID *primitive.ObjectID
	for _, b := range sheet.Columns {
		if b.ColumnID == id {
			agentID = b.AgentID
		}
	}
	if err := s.store.Sheets.UpdateColumnBinding(ctx, updated.SheetID, binding(updated, agentID)); err != nil {
		return sheetmodels.Column{}, err
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"column_id": id.Hex(),
		"sheet_id":  updated.SheetID.Hex(),
	}).Info("Column updated")
	return updated, nil
}

// Delete removes the column and its binding. Row data keeps the key.
func (s *ColumnService) Delete(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) error {
	column, err := s.store.Columns.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, column.SheetID); err != nil {
		return err
	}
	if err := s.store.Columns.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Sheets.PullColumn(ctx, column.SheetID, id); err != nil {
		return err
	}
	logger.LogAction(logger.AuditAction{
		Action:       "column.delete",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   id.Hex(),
		ResourceType: "column",
		Details:      map[string]interface{}{"sheetId": column.SheetID.Hex(), "dataKey": column.DataKey},
	})
	return nil
}

// visibleKeys returns the data keys of the sheet's visible columns.
func (s *ColumnService) visibleKeys(ctx context.Context, sheetIDs ...primitive.ObjectID) (map[primitive.ObjectID]map[string]bool, error) {
	columns, err := s.store.Columns.FindBySheets(ctx, sheetIDs...)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]map[string]bool, len(sheetIDs))
	for _, id := range sheetIDs {
		out[id] = map[string]bool{}
	}
	for _, c := range columns {
		if c.VisibleToUser {
			out[c.SheetID][c.DataKey] = true
		}
	}
	return out, nil
}

func (s *ColumnService) ensureKeyFree(ctx context.Context, sheetID primitive.ObjectID, dataKey string, excludeID primitive.ObjectID) error {
	taken, err := s.store.Columns.DataKeyExists(ctx, sheetID, dataKey, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return common.Conflict("Data key already used on the sheet", map[string]string{"sheetId": sheetID.Hex(), "dataKey": dataKey})
	}
	return nil
}

func binding(c sheetmodels.Column, agentID *primitive.ObjectID) hiermodels.SheetColumn {
	return hiermodels.SheetColumn{
		ColumnID: c.ID,
		Editable: c.EditableByUser,
		Required: c.IsRequired,
		AgentID:  agentID,
		Order:    c.Order,
	}
}

func toOptions(in []sheetdto.SelectOptionInput) []sheetmodels.SelectOption {
	if in == nil {
		return nil
	}
	out := make([]sheetmodels.SelectOption, 0, len(in))
	for _, o := range in {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		out = append(out, sheetmodels.SelectOption{Value: o.Value, Label: label})
	}
	return out
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
