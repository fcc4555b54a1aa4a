package sheetsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	sheetdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/dto"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type env struct {
	st      *store.Store
	project hiermodels.Project
	sheet   hiermodels.Sheet
	admin   authmodels.Principal
	sup     authmodels.Principal
	foreign authmodels.Principal
	agent   authmodels.Principal
	partner authmodels.Principal
	columns *ColumnService
	rows    *RowService
	perms   *PermissionService
	imports *ImportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	e := &env{st: st}

	add := func(name string, role authmodels.Role) authmodels.Principal {
		u, err := st.Users.Insert(ctx, authmodels.User{Name: name, Role: role})
		require.NoError(t, err)
		return authmodels.Principal{UserID: u.ID, Role: role}
	}
	e.admin = add("Admin", authmodels.RoleAdmin)
	e.sup = add("Sara", authmodels.RoleSupervisor)
	e.foreign = add("Fuad", authmodels.RoleSupervisor)
	e.agent = add("Aysel", authmodels.RoleAgent)
	e.partner = add("Pat", authmodels.RolePartner)

	company, err := st.Companies.Insert(ctx, hiermodels.Company{Name: "Acme"})
	require.NoError(t, err)
	e.project, err = st.Projects.Insert(ctx, hiermodels.Project{
		CompanyID:     company.ID,
		Name:          "Survey",
		SupervisorIDs: []primitive.ObjectID{e.sup.UserID},
		PartnerIDs:    []primitive.ObjectID{e.partner.UserID},
	})
	require.NoError(t, err)
	excel, err := st.Excels.Insert(ctx, hiermodels.Excel{ProjectID: e.project.ID, Name: "Leads"})
	require.NoError(t, err)
	e.sheet, err = st.Sheets.Insert(ctx, hiermodels.Sheet{ExcelID: excel.ID, ProjectID: e.project.ID, Name: "S"})
	require.NoError(t, err)

	users := authsvc.NewUserService(st.Users)
	e.columns = NewColumnService(st)
	e.rows = NewRowService(st, 1000)
	e.perms = NewPermissionService(st, e.rows, e.columns, users, 3)
	e.imports = NewImportService(st, e.rows)
	return e
}

func (e *env) seedRows(t *testing.T, n int) {
	t.Helper()
	input := make([]sheetdto.RowInput, 0, n)
	for i := 1; i <= n; i++ {
		input = append(input, sheetdto.RowInput{RowNumber: i, Data: map[string]interface{}{
			"name":   fmt.Sprintf("Lead %d", i),
			"secret": fmt.Sprintf("s%d", i),
			"status": "new",
		}})
	}
	inserted, err := e.rows.InsertRows(context.Background(), e.sheet.ID, input)
	require.NoError(t, err)
	require.Equal(t, n, inserted)
}

func (e *env) seedColumns(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	no := false
	_, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "Name", DataKey: "name", Type: "text", EditableByUser: &no})
	require.NoError(t, err)
	_, err = e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "Secret", DataKey: "secret", Type: "text", VisibleToUser: &no})
	require.NoError(t, err)
	_, err = e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "Status", DataKey: "status", Type: "select",
		Options: []sheetdto.SelectOptionInput{{Value: "new"}, {Value: "done", Label: "Done"}}})
	require.NoError(t, err)
}

func TestColumnRegistry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 1, EndRow: 5})
	require.NoError(t, err)

	t.Run("select options round trip in order", func(t *testing.T) {
		created, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{
			Name: "Choice", DataKey: "choice", Type: "select",
			Options:      []sheetdto.SelectOptionInput{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
			PhoneNumbers: []string{"+100"},
		})
		require.NoError(t, err)
		got, err := e.columns.Get(ctx, e.sup, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []sheetmodels.SelectOption{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}, got.Options)
		assert.Nil(t, got.PhoneNumbers, "phone numbers only apply to phone columns")

		sheet, err := e.st.Sheets.FindByID(ctx, e.sheet.ID)
		require.NoError(t, err)
		require.Len(t, sheet.Columns, 1)
		assert.Equal(t, created.ID, sheet.Columns[0].ColumnID)
	})

	t.Run("duplicate data key is a conflict", func(t *testing.T) {
		_, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "Other", DataKey: "choice", Type: "text"})
		assert.True(t, errors.Is(err, common.ErrConflict))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "X", DataKey: "x", Type: "money"})
		assert.True(t, common.IsValidation(err))
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := e.columns.Define(ctx, e.sup, primitive.NewObjectID(), sheetdto.ColumnCreateInput{Name: "X", DataKey: "x", Type: "text"})
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("agents cannot define columns", func(t *testing.T) {
		_, err := e.columns.Define(ctx, e.agent, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "X", DataKey: "x", Type: "text"})
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("hidden columns are read only and invisible to agents", func(t *testing.T) {
		no, yes := false, true
		hidden, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{
			Name: "Internal", DataKey: "internal", Type: "text", VisibleToUser: &no, EditableByUser: &yes,
		})
		require.NoError(t, err)
		assert.False(t, hidden.EditableByUser)

		for _, p := range []authmodels.Principal{e.agent, e.partner} {
			listed, err := e.columns.List(ctx, p, e.sheet.ID)
			require.NoError(t, err)
			for _, c := range listed {
				assert.NotEqual(t, "internal", c.DataKey, "role %s", p.Role)
			}
		}
		all, err := e.columns.List(ctx, e.sup, e.sheet.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = e.columns.Get(ctx, e.agent, hidden.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("update merges and keeps keys unique", func(t *testing.T) {
		listed, err := e.columns.List(ctx, e.admin, e.sheet.ID)
		require.NoError(t, err)
		internal := listed[1]

		taken := "choice"
		_, err = e.columns.Update(ctx, e.sup, internal.ID, sheetdto.ColumnUpdateInput{DataKey: &taken})
		assert.True(t, errors.Is(err, common.ErrConflict))

		yes := true
		updated, err := e.columns.Update(ctx, e.sup, internal.ID, sheetdto.ColumnUpdateInput{VisibleToUser: &yes, EditableByUser: &yes})
		require.NoError(t, err)
		assert.True(t, updated.VisibleToUser)
		assert.True(t, updated.EditableByUser)
		assert.Equal(t, "Internal", updated.Name)

		sheet, err := e.st.Sheets.FindByID(ctx, e.sheet.ID)
		require.NoError(t, err)
		assert.True(t, sheet.Columns[1].Editable)
	})

	t.Run("delete unbinds the column", func(t *testing.T) {
		listed, err := e.columns.List(ctx, e.admin, e.sheet.ID)
		require.NoError(t, err)
		require.NoError(t, e.columns.Delete(ctx, e.sup, listed[0].ID))

		sheet, err := e.st.Sheets.FindByID(ctx, e.sheet.ID)
		require.NoError(t, err)
		require.Len(t, sheet.Columns, 1)
		assert.Equal(t, listed[1].ID, sheet.Columns[0].ColumnID)
	})
}

func TestRowStorePaging(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedRows(t, 120)

	t.Run("page two returns rows 51 to 100", func(t *testing.T) {
		page, err := e.rows.GetRows(ctx, e.sheet.ID, PageParams{Page: 2, Limit: 50})
		require.NoError(t, err)
		require.Len(t, page.Data, 50)
		assert.Equal(t, 51, page.Data[0].RowNumber)
		assert.Equal(t, 100, page.Data[49].RowNumber)
		assert.Equal(t, int64(120), page.Total)
	})

	t.Run("skip adds to the page offset and total ignores it", func(t *testing.T) {
		page, err := e.rows.GetRows(ctx, e.sheet.ID, PageParams{Page: 2, Limit: 50, Skip: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 50)
		assert.Equal(t, 61, page.Data[0].RowNumber)
		assert.Equal(t, int64(120), page.Total)

		tail, err := e.rows.GetRows(ctx, e.sheet.ID, PageParams{Page: 3, Limit: 50, Skip: 10})
		require.NoError(t, err)
		assert.Len(t, tail.Data, 10)
	})

	t.Run("limit is capped", func(t *testing.T) {
		page, err := e.rows.GetRows(ctx, e.sheet.ID, PageParams{Page: 1, Limit: 5000})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), page.Limit)
		assert.Len(t, page.Data, 120)
	})

	t.Run("bad parameters", func(t *testing.T) {
		for _, params := range []PageParams{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: 10, Skip: -1}} {
			_, err := e.rows.GetRows(ctx, e.sheet.ID, params)
			assert.True(t, common.IsValidation(err), "%+v", params)
		}
	})

	t.Run("duplicate row is a conflict", func(t *testing.T) {
		_, err := e.rows.InsertRows(ctx, e.sheet.ID, []sheetdto.RowInput{{RowNumber: 3}})
		assert.True(t, errors.Is(err, common.ErrConflict))

		_, err = e.rows.InsertRows(ctx, e.sheet.ID, []sheetdto.RowInput{{RowNumber: 500}, {RowNumber: 500}})
		assert.True(t, errors.Is(err, common.ErrConflict))
	})

	t.Run("set cell creates missing rows", func(t *testing.T) {
		row, err := e.rows.SetCell(ctx, e.sheet.ID, 121, "status", "called")
		require.NoError(t, err)
		assert.Equal(t, "called", row.Data["status"])
		next, err := e.rows.NextRowNumber(ctx, e.sheet.ID)
		require.NoError(t, err)
		assert.Equal(t, 122, next)
	})

	t.Run("clear rows", func(t *testing.T) {
		n, err := e.rows.ClearRows(ctx, e.sheet.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(121), n)
	})
}

func TestPermissionResolver(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedColumns(t)
	e.seedRows(t, 20)

	_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 1, EndRow: 10})
	require.NoError(t, err)

	t.Run("agent row gating", func(t *testing.T) {
		access, err := e.perms.CanAccessRow(ctx, e.agent, e.sheet.ID, 5)
		require.NoError(t, err)
		assert.True(t, access.Allowed)

		access, err = e.perms.CanAccessRow(ctx, e.agent, e.sheet.ID, 15)
		require.NoError(t, err)
		assert.False(t, access.Allowed)
		assert.NotEmpty(t, access.Reason)

		access, err = e.perms.CanAccessRow(ctx, e.sup, e.sheet.ID, 15)
		require.NoError(t, err)
		assert.True(t, access.Allowed)
	})

	t.Run("missing sheet is not found, not denied", func(t *testing.T) {
		_, err := e.perms.CanAccessRow(ctx, e.agent, primitive.NewObjectID(), 5)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("grant joins the agent to sheet excel and project", func(t *testing.T) {
		sheet, err := e.st.Sheets.FindByID(ctx, e.sheet.ID)
		require.NoError(t, err)
		assert.Contains(t, sheet.AgentIDs, e.agent.UserID)
		excel, err := e.st.Excels.FindByID(ctx, e.sheet.ExcelID)
		require.NoError(t, err)
		assert.Contains(t, excel.AgentIDs, e.agent.UserID)
		project, err := e.st.Projects.FindByID(ctx, e.sheet.ProjectID)
		require.NoError(t, err)
		assert.Contains(t, project.AgentIDs, e.agent.UserID)
	})

	t.Run("agent slice is ranged and projected", func(t *testing.T) {
		page, err := e.perms.RowsForPrincipal(ctx, e.agent, e.sheet.ID, PageParams{Page: 1, Limit: 50})
		require.NoError(t, err)
		require.Len(t, page.Data, 10)
		assert.Equal(t, int64(10), page.Total)
		for _, row := range page.Data {
			assert.NotContains(t, row.Data, "secret")
			assert.Contains(t, row.Data, "name")
		}

		full, err := e.perms.RowsForPrincipal(ctx, e.sup, e.sheet.ID, PageParams{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Len(t, full.Data, 20)
		assert.Contains(t, full.Data[0].Data, "secret")
	})

	t.Run("no range means denied, not empty", func(t *testing.T) {
		other := authmodels.Principal{UserID: primitive.NewObjectID(), Role: authmodels.RoleAgent}
		_, err := e.perms.RowsForPrincipal(ctx, other, e.sheet.ID, PageParams{Page: 1, Limit: 50})
		assert.True(t, errors.Is(err, common.ErrAccessDenied))

		_, err = e.perms.RowsForPrincipal(ctx, e.partner, e.sheet.ID, PageParams{Page: 1, Limit: 50})
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("reads outside the range are denied", func(t *testing.T) {
		row, err := e.perms.ReadRow(ctx, e.agent, e.sheet.ID, 5)
		require.NoError(t, err)
		assert.NotContains(t, row.Data, "secret")

		_, err = e.perms.ReadRow(ctx, e.agent, e.sheet.ID, 15)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("writes need an editable visible column", func(t *testing.T) {
		row, err := e.perms.WriteCell(ctx, e.agent, e.sheet.ID, 5, "status", "done")
		require.NoError(t, err)
		assert.Equal(t, "done", row.Data["status"])

		for key, why := range map[string]string{"name": "not editable", "secret": "hidden", "unknown": "undefined"} {
			_, err := e.perms.WriteCell(ctx, e.agent, e.sheet.ID, 5, key, "x")
			assert.True(t, errors.Is(err, common.ErrAccessDenied), why)
		}

		_, err = e.perms.WriteCell(ctx, e.agent, e.sheet.ID, 15, "status", "done")
		assert.True(t, errors.Is(err, common.ErrAccessDenied))

		_, err = e.perms.WriteCell(ctx, e.sup, e.sheet.ID, 15, "secret", "x")
		assert.NoError(t, err)
	})

	t.Run("invalid ranges are rejected", func(t *testing.T) {
		for _, in := range []sheetdto.GrantInput{
			{AgentID: e.agent.UserID.Hex(), StartRow: 0, EndRow: 3},
			{AgentID: e.agent.UserID.Hex(), StartRow: 9, EndRow: 3},
		} {
			_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, in)
			assert.True(t, common.IsValidation(err))
		}
		_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.partner.UserID.Hex(), StartRow: 1, EndRow: 3})
		assert.True(t, common.IsValidation(err), "partners cannot hold ranges")
		_, err = e.perms.GrantRowRange(ctx, e.agent, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 1, EndRow: 3})
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("ranges are a union", func(t *testing.T) {
		_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 15, EndRow: 16})
		require.NoError(t, err)
		access, err := e.perms.CanAccessRow(ctx, e.agent, e.sheet.ID, 15)
		require.NoError(t, err)
		assert.True(t, access.Allowed)
	})

	t.Run("replace swaps every range of the agent", func(t *testing.T) {
		sheet, err := e.perms.ReplaceRowRanges(ctx, e.sup, e.sheet.ID, e.agent.UserID, []sheetdto.RangeInput{{StartRow: 18, EndRow: 20}})
		require.NoError(t, err)
		assert.Equal(t, []hiermodels.AgentRowPermission{{AgentID: e.agent.UserID, StartRow: 18, EndRow: 20}}, sheet.RangesFor(e.agent.UserID))

		access, err := e.perms.CanAccessRow(ctx, e.agent, e.sheet.ID, 5)
		require.NoError(t, err)
		assert.False(t, access.Allowed)
	})

	t.Run("revoke removes agent and ranges", func(t *testing.T) {
		sheet, err := e.perms.RevokeAgent(ctx, e.sup, e.sheet.ID, e.agent.UserID)
		require.NoError(t, err)
		assert.NotContains(t, sheet.AgentIDs, e.agent.UserID)
		assert.Empty(t, sheet.RangesFor(e.agent.UserID))
	})
}

func TestSheetProjectScope(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedColumns(t)
	e.seedRows(t, 20)
	_, err := e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 1, EndRow: 10})
	require.NoError(t, err)
	listed, err := e.columns.List(ctx, e.sup, e.sheet.ID)
	require.NoError(t, err)
	require.NotEmpty(t, listed)

	t.Run("supervisor of another project is denied everywhere", func(t *testing.T) {
		access, err := e.perms.CanAccessRow(ctx, e.foreign, e.sheet.ID, 15)
		require.NoError(t, err)
		assert.False(t, access.Allowed)
		assert.NotEmpty(t, access.Reason)

		rename := "Renamed"
		calls := map[string]func() error{
			"rows": func() error {
				_, err := e.perms.RowsForPrincipal(ctx, e.foreign, e.sheet.ID, PageParams{Page: 1, Limit: 50})
				return err
			},
			"read": func() error {
				_, err := e.perms.ReadRow(ctx, e.foreign, e.sheet.ID, 15)
				return err
			},
			"write": func() error {
				_, err := e.perms.WriteCell(ctx, e.foreign, e.sheet.ID, 15, "status", "done")
				return err
			},
			"grant": func() error {
				_, err := e.perms.GrantRowRange(ctx, e.foreign, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 11, EndRow: 20})
				return err
			},
			"replace": func() error {
				_, err := e.perms.ReplaceRowRanges(ctx, e.foreign, e.sheet.ID, e.agent.UserID, []sheetdto.RangeInput{{StartRow: 1, EndRow: 20}})
				return err
			},
			"revoke": func() error {
				_, err := e.perms.RevokeAgent(ctx, e.foreign, e.sheet.ID, e.agent.UserID)
				return err
			},
			"define column": func() error {
				_, err := e.columns.Define(ctx, e.foreign, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "X", DataKey: "x", Type: "text"})
				return err
			},
			"list columns": func() error {
				_, err := e.columns.List(ctx, e.foreign, e.sheet.ID)
				return err
			},
			"get column": func() error {
				_, err := e.columns.Get(ctx, e.foreign, listed[0].ID)
				return err
			},
			"update column": func() error {
				_, err := e.columns.Update(ctx, e.foreign, listed[0].ID, sheetdto.ColumnUpdateInput{Name: &rename})
				return err
			},
			"delete column": func() error {
				return e.columns.Delete(ctx, e.foreign, listed[0].ID)
			},
			"insert rows": func() error {
				_, err := e.rows.InsertRowsFor(ctx, e.foreign, e.sheet.ID, []sheetdto.RowInput{{RowNumber: 99}})
				return err
			},
			"clear rows": func() error {
				_, err := e.rows.ClearRowsFor(ctx, e.foreign, e.sheet.ID)
				return err
			},
			"import": func() error {
				_, err := e.imports.Import(ctx, e.foreign, e.sheet.ID, bytes.NewReader(nil), "")
				return err
			},
		}
		for name, call := range calls {
			assert.True(t, errors.Is(call(), common.ErrAccessDenied), name)
		}

		sheet, err := e.st.Sheets.FindByID(ctx, e.sheet.ID)
		require.NoError(t, err)
		assert.Equal(t, []hiermodels.AgentRowPermission{{AgentID: e.agent.UserID, StartRow: 1, EndRow: 10}}, sheet.RangesFor(e.agent.UserID))
		assert.Len(t, sheet.Columns, len(listed))
		count, err := e.st.Rows.Count(ctx, store.RowFilter{SheetIDs: []primitive.ObjectID{e.sheet.ID}})
		require.NoError(t, err)
		assert.Equal(t, int64(20), count)
	})

	t.Run("project agent without a sheet assignment", func(t *testing.T) {
		u, err := e.st.Users.Insert(ctx, authmodels.User{Name: "Nazim", Role: authmodels.RoleAgent})
		require.NoError(t, err)
		require.NoError(t, e.st.Projects.AddToSet(ctx, e.project.ID, hiermodels.ProjectFieldAgents, u.ID))
		other := authmodels.Principal{UserID: u.ID, Role: authmodels.RoleAgent}

		_, err = e.columns.List(ctx, other, e.sheet.ID)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))

		access, err := e.perms.CanAccessRow(ctx, other, e.sheet.ID, 5)
		require.NoError(t, err)
		assert.False(t, access.Allowed)
	})

	t.Run("soft-deleted project hides its sheets", func(t *testing.T) {
		require.NoError(t, e.st.Projects.SoftDelete(ctx, e.project.ID))

		_, err := e.perms.CanAccessRow(ctx, e.agent, e.sheet.ID, 5)
		assert.True(t, errors.Is(err, common.ErrNotFound), "agent row check")
		_, err = e.perms.ReadRow(ctx, e.agent, e.sheet.ID, 5)
		assert.True(t, errors.Is(err, common.ErrNotFound), "agent read")
		_, err = e.perms.RowsForPrincipal(ctx, e.sup, e.sheet.ID, PageParams{Page: 1, Limit: 50})
		assert.True(t, errors.Is(err, common.ErrNotFound), "supervisor rows")
		_, err = e.perms.WriteCell(ctx, e.sup, e.sheet.ID, 5, "status", "done")
		assert.True(t, errors.Is(err, common.ErrNotFound), "supervisor write")
		_, err = e.perms.GrantRowRange(ctx, e.sup, e.sheet.ID, sheetdto.GrantInput{AgentID: e.agent.UserID.Hex(), StartRow: 11, EndRow: 12})
		assert.True(t, errors.Is(err, common.ErrNotFound), "grant")
		_, err = e.columns.List(ctx, e.sup, e.sheet.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound), "list columns")
		_, err = e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "X", DataKey: "x", Type: "text"})
		assert.True(t, errors.Is(err, common.ErrNotFound), "define column")
		_, err = e.rows.InsertRowsFor(ctx, e.sup, e.sheet.ID, []sheetdto.RowInput{{RowNumber: 99}})
		assert.True(t, errors.Is(err, common.ErrNotFound), "insert rows")
		_, err = e.imports.Import(ctx, e.sup, e.sheet.ID, bytes.NewReader(nil), "")
		assert.True(t, errors.Is(err, common.ErrNotFound), "import")
	})
}

// racingSheets loses the version check a fixed number of times.
type racingSheets struct {
	store.SheetStore
	losses int
	calls  int
}

func (r *racingSheets) ReplaceAgentRanges(ctx context.Context, id, agentID primitive.ObjectID, ranges []hiermodels.AgentRowPermission, expectedVersion int64) (hiermodels.Sheet, error) {
	r.calls++
	if r.calls <= r.losses {
		return hiermodels.Sheet{}, common.ErrVersionConflict
	}
	return r.SheetStore.ReplaceAgentRanges(ctx, id, agentID, ranges, expectedVersion)
}

func TestReplaceRowRangesRetries(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		e := newEnv(t)
		racing := &racingSheets{SheetStore: e.st.Sheets, losses: 2}
		e.st.Sheets = racing

		sheet, err := e.perms.ReplaceRowRanges(ctx, e.sup, e.sheet.ID, e.agent.UserID, []sheetdto.RangeInput{{StartRow: 1, EndRow: 5}})
		require.NoError(t, err)
		assert.Equal(t, 3, racing.calls)
		assert.Len(t, sheet.RangesFor(e.agent.UserID), 1)
	})

	t.Run("gives up with a conflict", func(t *testing.T) {
		e := newEnv(t)
		racing := &racingSheets{SheetStore: e.st.Sheets, losses: 10}
		e.st.Sheets = racing

		_, err := e.perms.ReplaceRowRanges(ctx, e.sup, e.sheet.ID, e.agent.UserID, []sheetdto.RangeInput{{StartRow: 1, EndRow: 5}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrVersionConflict))
		assert.Equal(t, 3, racing.calls)
	})
}

func TestImportWorkbook(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedColumns(t)
	_, err := e.columns.Define(ctx, e.sup, e.sheet.ID, sheetdto.ColumnCreateInput{Name: "Amount", DataKey: "amount", Type: "number"})
	require.NoError(t, err)
	_, err = e.rows.InsertRows(ctx, e.sheet.ID, []sheetdto.RowInput{{RowNumber: 1, Data: map[string]interface{}{"name": "Existing"}}})
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	ws := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(ws, "A1", &[]interface{}{"Name", "amount", "Ignored"}))
	require.NoError(t, f.SetSheetRow(ws, "A2", &[]interface{}{"Ali", "12.5", "x"}))
	require.NoError(t, f.SetSheetRow(ws, "A3", &[]interface{}{"", "", ""}))
	require.NoError(t, f.SetSheetRow(ws, "A4", &[]interface{}{"Vali", "7", ""}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := e.imports.Import(ctx, e.sup, e.sheet.ID, &buf, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 2, result.FirstRow)
	assert.Equal(t, 3, result.LastRow)
	assert.Equal(t, []string{"Ignored"}, result.UnknownHeaders)

	row, err := e.rows.GetRow(ctx, e.sheet.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ali", row.Data["name"])
	assert.Equal(t, 12.5, row.Data["amount"])

	t.Run("agents cannot import", func(t *testing.T) {
		_, err := e.imports.Import(ctx, e.agent, e.sheet.ID, bytes.NewReader(buf.Bytes()), "")
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("garbage upload", func(t *testing.T) {
		_, err := e.imports.Import(ctx, e.sup, e.sheet.ID, bytes.NewReader([]byte("not a workbook")), "")
		assert.True(t, common.IsValidation(err))
	})
}
