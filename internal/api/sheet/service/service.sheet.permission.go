package sheetsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RowAccess is the outcome of a row gating check.
type RowAccess struct {
	SheetID   primitive.ObjectID `json:"sheetId"`
	RowNumber int                `json:"rowNumber"`
	Allowed   bool               `json:"allowed"`
	Reason    string             `json:"reason,omitempty"`
}

// PermissionService resolves row-range access and manages agent ranges.
type PermissionService struct {
	store      *store.Store
	rows       *RowService
	columns    *ColumnService
	users      *authsvc.UserService
	maxRetries int
	backoff    func() backoff.BackOff
}

// NewPermissionService returns a PermissionService. maxRetries bounds the
// attempts of a range replacement that keeps losing the version race.
func NewPermissionService(st *store.Store, rows *RowService, columns *ColumnService, users *authsvc.UserService, maxRetries int) *PermissionService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &PermissionService{
		store:      st,
		rows:       rows,
		columns:    columns,
		users:      users,
		maxRetries: maxRetries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
	}
}

// resolve applies row gating to a loaded sheet. Nobody passes unless listed
// on the sheet's project. Members who are admins or supervisors pass every
// row, an agent passes rows inside the union of its ranges and partners
// never pass.
func resolve(p authmodels.Principal, sheet *hiermodels.Sheet, project *hiermodels.Project, rowNumber int) RowAccess {
	access := RowAccess{SheetID: sheet.ID, RowNumber: rowNumber}
	switch {
	case !hiersvc.IsMember(p, *project):
		access.Reason = "not a member of the sheet's project"
	case p.IsPrivileged():
		access.Allowed = true
	case p.Role == authmodels.RoleAgent:
		if len(sheet.RangesFor(p.UserID)) == 0 {
			access.Reason = "no row range assigned on this sheet"
		} else if sheet.AgentCovers(p.UserID, rowNumber) {
			access.Allowed = true
		} else {
			access.Reason = fmt.Sprintf("row %d is outside the assigned ranges", rowNumber)
		}
	default:
		access.Reason = "role has no row-level access"
	}
	return access
}

// CanAccessRow reports whether p may read the row. A missing sheet, or one
// under a soft-deleted project, is NotFound, never a denial.
func (s *PermissionService) CanAccessRow(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, rowNumber int) (RowAccess, error) {
	if rowNumber < 1 {
		return RowAccess{}, common.Validation("rowNumber must be at least 1", map[string]int{"rowNumber": rowNumber})
	}
	sheet, project, err := hiersvc.LiveSheet(ctx, s.store, sheetID)
	if err != nil {
		return RowAccess{}, err
	}
	return resolve(p, &sheet, &project, rowNumber), nil
}

// CanWriteCell returns nil when p may write dataKey on the row, else an
// AccessDenied naming the reason. Agents additionally need a visible,
// editable column for the key.
func (s *PermissionService) CanWriteCell(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, rowNumber int, dataKey string) error {
	access, err := s.CanAccessRow(ctx, p, sheetID, rowNumber)
	if err != nil {
		return err
	}
	if !access.Allowed {
		return common.AccessDenied("Row is not writable: "+access.Reason, access)
	}
	if p.IsPrivileged() {
		return nil
	}

	columns, err := s.store.Columns.FindBySheets(ctx, sheetID)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if c.DataKey != dataKey {
			continue
		}
		if !c.VisibleToUser {
			return common.AccessDenied("Column is hidden", map[string]string{"dataKey": dataKey})
		}
		if !c.EditableByUser {
			return common.AccessDenied("Column is not editable", map[string]string{"dataKey": dataKey})
		}
		return nil
	}
	return common.AccessDenied("No column defines this data key", map[string]string{"dataKey": dataKey})
}

// RowsForPrincipal returns the window of rows p may read. Agents get rows
// inside their ranges with data limited to visible columns; an agent with
// no range on the sheet is denied rather than given an empty page.
func (s *PermissionService) RowsForPrincipal(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, params PageParams) (RowPage, error) {
	sheet, project, err := hiersvc.LiveSheet(ctx, s.store, sheetID)
	if err != nil {
		return RowPage{}, err
	}
	if !hiersvc.IsMember(p, project) {
		return RowPage{}, common.AccessDenied("Not a member of the sheet's project", map[string]string{"sheetId": sheetID.Hex()})
	}
	if p.IsPrivileged() {
		return s.rows.GetRows(ctx, sheetID, params)
	}
	if p.Role != authmodels.RoleAgent {
		return RowPage{}, common.AccessDenied("Role has no row-level access", map[string]string{"role": string(p.Role)})
	}

	ranges := sheet.RangesFor(p.UserID)
	if len(ranges) == 0 {
		return RowPage{}, common.AccessDenied("No row range assigned on this sheet", map[string]string{"sheetId": sheetID.Hex()})
	}

	filter := store.RowFilter{SheetIDs: []primitive.ObjectID{sheetID}, RangesOnly: true}
	for _, r := range ranges {
		filter.Ranges = append(filter.Ranges, store.RowRange{SheetID: sheetID, Start: r.StartRow, End: r.EndRow})
	}
	page, err := s.rows.page(ctx, sheetID, filter, params)
	if err != nil {
		return RowPage{}, err
	}
	keys, err := s.columns.visibleKeys(ctx, sheetID)
	if err != nil {
		return RowPage{}, err
	}
	for i := range page.Data {
		page.Data[i] = page.Data[i].Project(keys[sheetID])
	}
	return page, nil
}

// ReadRow returns one row p may read, projected to visible columns for
// agents.
func (s *PermissionService) ReadRow(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, rowNumber int) (sheetmodels.SheetRow, error) {
	access, err := s.CanAccessRow(ctx, p, sheetID, rowNumber)
	if err != nil {
		return sheetmodels.SheetRow{}, err
	}
	if !access.Allowed {
		return sheetmodels.SheetRow{}, common.AccessDenied("Row is not readable: "+access.Reason, access)
	}
	row, err := s.store.Rows.FindOne(ctx, sheetID, rowNumber)
	if err != nil || !p.IsRestricted() {
		return row, err
	}
	keys, err := s.columns.visibleKeys(ctx, sheetID)
	if err != nil {
		return sheetmodels.SheetRow{}, err
	}
	return row.Project(keys[sheetID]), nil
}

// WriteCell checks CanWriteCell and upserts the value.
func (s *PermissionService) WriteCell(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, rowNumber int, dataKey string, value interface{}) (sheetmodels.SheetRow, error) {
	if err := s.CanWriteCell(ctx, p, sheetID, rowNumber, dataKey); err != nil {
		logger.WithContext(ctx).WithFields(logrus.Fields{
			"sheet_id":   sheetID.Hex(),
			"row_number": rowNumber,
			"data_key":   dataKey,
		}).WithError(err).Debug("Cell write denied")
		return sheetmodels.SheetRow{}, err
	}
	row, err := s.rows.SetCell(ctx, sheetID, rowNumber, dataKey, value)
	if err != nil {
		return sheetmodels.SheetRow{}, err
	}
	logger.LogAction(logger.AuditAction{
		Action:       "cell.write",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   sheetID.Hex(),
		ResourceType: "sheet",
		Details:      map[string]interface{}{"rowNumber": rowNumber, "dataKey": dataKey},
	})
	if !p.IsRestricted() {
		return row, nil
	}
	keys, err := s.columns.visibleKeys(ctx, sheetID)
	if err != nil {
		return sheetmodels.SheetRow{}, err
	}
	return row.Project(keys[sheetID]), nil
}

// GrantRowRange assigns [StartRow, EndRow] of the sheet to an agent. The
// agent joins the sheet, its excel and its project in the same call.
func (s *PermissionService) GrantRowRange(ctx context.Context, p authmodels.Principal, sheetID primitive.ObjectID, input sheetdto.GrantInput) (hiermodels.Sheet, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return hiermodels.Sheet{}, err
	}
	agentID, err := utility.String2ObjectID("agentId", input.AgentID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	perm, err := checkRange(agentID, input.StartRow, input.EndRow)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if err := s.users.RequireRole(ctx, authmodels.RoleAgent, agentID); err != nil {
		return hiermodels.Sheet{}, err
	}

	sheet, err := s.store.Sheets.GrantRange(ctx, sheetID, perm)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if err := s.joinParents(ctx, sheet, agentID); err != nil {
		return hiermodels.Sheet{}, err
	}
	s.audit(p, "permission.grant", sheetID, map[string]interface{}{
		"agentId":  agentID.Hex(),
		"startRow": perm.StartRow,
		"endRow":   perm.EndRow,
	})
	return sheet, nil
}

// ReplaceRowRanges swaps every range of the agent for ranges. The swap is
// version checked and retried with backoff when a concurrent change wins;
// once retries run out the caller gets a Conflict.
func (s *PermissionService) ReplaceRowRanges(ctx context.Context, p authmodels.Principal, sheetID, agentID primitive.ObjectID, input []sheetdto.RangeInput) (hiermodels.Sheet, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return hiermodels.Sheet{}, err
	}
	ranges := make([]hiermodels.AgentRowPermission, 0, len(input))
	for _, in := range input {
		perm, err := checkRange(agentID, in.StartRow, in.EndRow)
		if err != nil {
			return hiermodels.Sheet{}, err
		}
		ranges = append(ranges, perm)
	}
	if err := s.users.RequireRole(ctx, authmodels.RoleAgent, agentID); err != nil {
		return hiermodels.Sheet{}, err
	}

	log := logger.WithContext(ctx).WithField("sheet_id", sheetID.Hex())
	replace := func() (hiermodels.Sheet, error) {
		current, err := s.store.Sheets.FindByID(ctx, sheetID)
		if err != nil {
			return hiermodels.Sheet{}, backoff.Permanent(err)
		}
		updated, err := s.store.Sheets.ReplaceAgentRanges(ctx, sheetID, agentID, ranges, current.Version)
		if err != nil && !errors.Is(err, common.ErrVersionConflict) {
			return hiermodels.Sheet{}, backoff.Permanent(err)
		}
		return updated, err
	}
	sheet, err := backoff.Retry(ctx, replace,
		backoff.WithBackOff(s.backoff()),
		backoff.WithMaxTries(uint(s.maxRetries)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.WithField("wait", wait.String()).Warn("Sheet changed concurrently, retrying range replacement")
		}),
	)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return hiermodels.Sheet{}, common.NewError(common.ErrCodeVersionConflict,
				"Sheet kept changing, range replacement gave up", common.StatusConflict,
				map[string]interface{}{"sheetId": sheetID.Hex(), "attempts": s.maxRetries})
		}
		return hiermodels.Sheet{}, err
	}

	if len(ranges) > 0 {
		if err := s.joinParents(ctx, sheet, agentID); err != nil {
			return hiermodels.Sheet{}, err
		}
	}
	s.audit(p, "permission.replace", sheetID, map[string]interface{}{
		"agentId": agentID.Hex(),
		"ranges":  len(ranges),
	})
	return sheet, nil
}

// RevokeAgent removes the agent and all its ranges from the sheet.
func (s *PermissionService) RevokeAgent(ctx context.Context, p authmodels.Principal, sheetID, agentID primitive.ObjectID) (hiermodels.Sheet, error) {
	if _, err := hiersvc.ManageSheet(ctx, s.store, p, sheetID); err != nil {
		return hiermodels.Sheet{}, err
	}
	sheet, err := s.store.Sheets.RevokeAgent(ctx, sheetID, agentID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	s.audit(p, "permission.revoke", sheetID, map[string]interface{}{"agentId": agentID.Hex()})
	return sheet, nil
}

func (s *PermissionService) joinParents(ctx context.Context, sheet hiermodels.Sheet, agentID primitive.ObjectID) error {
	if err := s.store.Excels.AddToSet(ctx, sheet.ExcelID, hiermodels.ExcelFieldAgents, agentID); err != nil {
		return err
	}
	return s.store.Projects.AddToSet(ctx, sheet.ProjectID, hiermodels.ProjectFieldAgents, agentID)
}

func (s *PermissionService) audit(p authmodels.Principal, action string, sheetID primitive.ObjectID, details map[string]interface{}) {
	logger.LogAction(logger.AuditAction{
		Action:       action,
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   sheetID.Hex(),
		ResourceType: "sheet",
		Details:      details,
	})
}

func checkRange(agentID primitive.ObjectID, start, end int) (hiermodels.AgentRowPermission, error) {
	if start < 1 || end < start {
		return hiermodels.AgentRowPermission{}, common.Validation("Row range must satisfy 1 <= startRow <= endRow",
			map[string]int{"startRow": start, "endRow": end})
	}
	return hiermodels.AgentRowPermission{AgentID: agentID, StartRow: start, EndRow: end}, nil
}
