package reportsvc

import (
	"bytes"
	"context"
	"testing"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	reportdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/dto"
	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

type env struct {
	st       *store.Store
	svc      *ReportService
	company  hiermodels.Company
	admin    authmodels.Principal
	sup      authmodels.Principal
	outsider authmodels.Principal
	agent    authmodels.Principal
	partner  authmodels.Principal
}

// newEnv seeds one company with one project, one excel and two sheets. The
// first sheet holds three rows, the second none. The agent holds rows 2-3 of
// the first sheet.
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
	second := add("Omar", authmodels.RoleSupervisor)
	e.outsider = add("Olga", authmodels.RoleSupervisor)
	e.agent = add("Aysel", authmodels.RoleAgent)
	e.partner = add("Pat", authmodels.RolePartner)

	var err error
	e.company, err = st.Companies.Insert(ctx, hiermodels.Company{Name: "Acme"})
	require.NoError(t, err)
	project, err := st.Projects.Insert(ctx, hiermodels.Project{
		CompanyID:     e.company.ID,
		Name:          "Survey",
		SupervisorIDs: []primitive.ObjectID{e.sup.UserID, second.UserID},
		AgentIDs:      []primitive.ObjectID{e.agent.UserID},
		PartnerIDs:    []primitive.ObjectID{e.partner.UserID},
	})
	require.NoError(t, err)
	excel, err := st.Excels.Insert(ctx, hiermodels.Excel{ProjectID: project.ID, Name: "Leads"})
	require.NoError(t, err)
	first, err := st.Sheets.Insert(ctx, hiermodels.Sheet{
		ExcelID:             excel.ID,
		ProjectID:           project.ID,
		Name:                "Week 1",
		AgentIDs:            []primitive.ObjectID{e.agent.UserID},
		AgentRowPermissions: []hiermodels.AgentRowPermission{{AgentID: e.agent.UserID, StartRow: 2, EndRow: 3}},
	})
	require.NoError(t, err)
	_, err = st.Sheets.Insert(ctx, hiermodels.Sheet{ExcelID: excel.ID, ProjectID: project.ID, Name: "Week 2"})
	require.NoError(t, err)

	for i, col := range []sheetmodels.Column{
		{Name: "Name", DataKey: "name", Type: sheetmodels.ColumnTypeText, VisibleToUser: true},
		{Name: "Amount", DataKey: "amount", Type: sheetmodels.ColumnTypeNumber, VisibleToUser: true},
		{Name: "Secret", DataKey: "secret", Type: sheetmodels.ColumnTypeText},
	} {
		col.SheetID = first.ID
		col.Order = i
		_, err := st.Columns.Insert(ctx, col)
		require.NoError(t, err)
	}

	_, err = st.Rows.InsertMany(ctx, []sheetmodels.SheetRow{
		{SheetID: first.ID, RowNumber: 1, Data: map[string]interface{}{"secret": "s1", "amount": 10, "name": "Lead 1"}},
		{SheetID: first.ID, RowNumber: 2, Data: map[string]interface{}{"secret": "s2", "amount": 20, "name": "Lead 2"}},
		{SheetID: first.ID, RowNumber: 3, Data: map[string]interface{}{"secret": "s3", "amount": 10, "name": "Lead 3", "extra": "x"}},
	})
	require.NoError(t, err)

	e.svc = NewReportService(st, authsvc.NewUserService(st.Users), Options{Locale: "en", DefaultPageSize: 25, VisibleColumns: 8})
	return e
}

func values(records []*reportmodels.Record, key string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Get(key))
	}
	return out
}

func TestBuildReportFlattensHierarchy(t *testing.T) {
	e := newEnv(t)

	records, err := e.svc.BuildReport(context.Background(), e.admin, primitive.NilObjectID)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"company", "project", "supervisor", "excel", "sheetName", "name", "amount", "secret"}, records[0].Keys())
	assert.Equal(t, "Acme", records[0].Get("company"))
	assert.Equal(t, "Sara, Omar", records[0].Get("supervisor"))
	assert.Equal(t, "10", records[0].Get("amount"))
	assert.Equal(t, []string{"Lead 1", "Lead 2", "Lead 3", ""}, values(records, "name"))
	assert.Equal(t, "x", records[2].Get("extra"))

	empty := records[3]
	assert.Equal(t, reportmodels.ContextKeys, empty.Keys())
	assert.Equal(t, "Week 2", empty.Get("sheetName"))
}

func TestBuildReportSlicesByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	t.Run("supervisor of the project sees everything", func(t *testing.T) {
		records, err := e.svc.BuildReport(ctx, e.sup, primitive.NilObjectID)
		require.NoError(t, err)
		assert.Len(t, records, 4)
		assert.Equal(t, "s1", records[0].Get("secret"))
	})

	t.Run("unrelated supervisor sees nothing", func(t *testing.T) {
		records, err := e.svc.BuildReport(ctx, e.outsider, primitive.NilObjectID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("agent sees only ranged rows without hidden keys", func(t *testing.T) {
		records, err := e.svc.BuildReport(ctx, e.agent, primitive.NilObjectID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"Lead 2", "Lead 3"}, values(records, "name"))
		for _, r := range records {
			assert.False(t, r.Has("secret"))
			assert.False(t, r.Has("extra"))
		}
	})

	t.Run("partner sees all rows without hidden keys", func(t *testing.T) {
		records, err := e.svc.BuildReport(ctx, e.partner, primitive.NilObjectID)
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.False(t, records[0].Has("secret"))
		assert.True(t, records[0].Has("amount"))
	})
}

func TestBuildReportCompanyFilterAndDeletedProjects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other, err := e.st.Companies.Insert(ctx, hiermodels.Company{Name: "Other"})
	require.NoError(t, err)
	gone, err := e.st.Projects.Insert(ctx, hiermodels.Project{CompanyID: other.ID, Name: "Gone"})
	require.NoError(t, err)
	excel, err := e.st.Excels.Insert(ctx, hiermodels.Excel{ProjectID: gone.ID, Name: "Old"})
	require.NoError(t, err)
	_, err = e.st.Sheets.Insert(ctx, hiermodels.Sheet{ExcelID: excel.ID, ProjectID: gone.ID, Name: "Old sheet"})
	require.NoError(t, err)

	all, err := e.svc.BuildReport(ctx, e.admin, primitive.NilObjectID)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	require.NoError(t, e.st.Projects.SoftDelete(ctx, gone.ID))
	all, err = e.svc.BuildReport(ctx, e.admin, primitive.NilObjectID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	only, err := e.svc.BuildReport(ctx, e.admin, other.ID)
	require.NoError(t, err)
	assert.Empty(t, only)
}

func TestInferColumns(t *testing.T) {
	r1 := reportmodels.NewRecord()
	r1.Set("customerName", "123")
	r1.Set("created", "")
	r1.Set("amount", "12.5")
	r1.Set("note", "abc")
	r2 := reportmodels.NewRecord()
	r2.Set("created", "2024-05-01T10:00:00Z")
	r2.Set("Phone", "555")
	r2.Set("blank", "")

	columns := InferColumns([]*reportmodels.Record{r1, r2}, 3)
	require.Len(t, columns, 6)

	types := map[string]string{}
	for _, c := range columns {
		types[c.Key] = c.Type
	}
	assert.Equal(t, map[string]string{
		"customerName": reportmodels.TypeText,
		"created":      reportmodels.TypeDate,
		"amount":       reportmodels.TypeNumber,
		"note":         reportmodels.TypeText,
		"Phone":        reportmodels.TypeText,
		"blank":        reportmodels.TypeText,
	}, types)

	assert.Equal(t, "customerName", columns[0].Key)
	assert.True(t, columns[2].Visible)
	assert.False(t, columns[3].Visible)
}

func record(kv ...string) *reportmodels.Record {
	r := reportmodels.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func sample() []*reportmodels.Record {
	return []*reportmodels.Record{
		record("name", "Zoe", "status", "new", "city", "Baku", "amount", "10", "day", "2024-01-05"),
		record("name", "Émile", "status", "done", "city", "Ganja", "amount", "9", "day", "2024-02-10"),
		record("name", "Adam", "status", "lost", "city", "Baku", "amount", "100", "day", "2024-03-15"),
		record("name", "bob", "status", "new", "city", "Ganja", "amount", "", "day", ""),
	}
}

func TestApply(t *testing.T) {
	en := language.English
	cols := InferColumns(sample(), 8)

	t.Run("filters OR within a column and AND across columns", func(t *testing.T) {
		q := Query{Filters: map[string][]string{"status": {"new", "done"}, "city": {"Ganja"}}}
		assert.Equal(t, []string{"Émile", "bob"}, values(Apply(sample(), cols, q, en), "name"))
	})

	t.Run("empty accepted set does not filter", func(t *testing.T) {
		q := Query{Filters: map[string][]string{"status": {}}}
		assert.Len(t, Apply(sample(), cols, q, en), 4)
	})

	t.Run("search is case insensitive over every cell", func(t *testing.T) {
		assert.Equal(t, []string{"Zoe", "Adam"}, values(Apply(sample(), cols, Query{Search: "BAK"}, en), "name"))
	})

	t.Run("numeric sort", func(t *testing.T) {
		q, err := ParseQuery(`{"sort":{"column":"amount"},"filters":{"city":["Baku"]}}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "100"}, values(Apply(sample(), cols, q, en), "amount"))

		q, err = ParseQuery(`{"sort":{"column":"amount","direction":"desc"},"search":"a"}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"100", "10", "9"}, values(Apply(sample()[:3], cols, q, en), "amount"))
	})

	t.Run("text sort collates by locale", func(t *testing.T) {
		q, err := ParseQuery(`{"sort":{"column":"name","direction":"asc"}}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Adam", "bob", "Émile", "Zoe"}, values(Apply(sample(), cols, q, en), "name"))
	})

	t.Run("date range defaults to the first date column", func(t *testing.T) {
		q, err := ParseQuery(`{"dateRange":{"from":"2024-02-01","to":"2024-03-15"}}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Émile", "Adam"}, values(Apply(sample(), cols, q, en), "name"))
	})

	t.Run("input order is kept", func(t *testing.T) {
		in := sample()
		_ = Apply(in, cols, Query{Sort: &reportdto.Sort{Column: "name"}}, en)
		assert.Equal(t, "Zoe", in[0].Get("name"))
	})
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("  ")
	require.NoError(t, err)
	assert.Nil(t, q.Sort)

	for _, raw := range []string{
		`{"filters":`,
		`{"pagination":{"pageSize":5000}}`,
		`{"pagination":{"page":-1}}`,
		`{"sort":{"column":"a","direction":"up"}}`,
		`{"sort":{"direction":"asc"}}`,
		`{"dateRange":{"from":"05/01/2024"}}`,
		`{"dateRange":{"from":"2024-05-02","to":"2024-05-01"}}`,
		`{"filters":{"a":"single"}}`,
	} {
		_, err := ParseQuery(raw)
		assert.True(t, common.IsValidation(err), raw)
	}
}

func TestPaginate(t *testing.T) {
	records := append(sample(), record("name", "extra"))

	page := Paginate(records, nil, Query{}.Pagination, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)

	q, err := ParseQuery(`{"pagination":{"page":3,"pageSize":2}}`)
	require.NoError(t, err)
	page = Paginate(records, nil, q.Pagination, 25)
	assert.Equal(t, []string{"extra"}, values(page.Items, "name"))

	q.Pagination.Page = 4
	page = Paginate(records, nil, q.Pagination, 25)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
}

func TestColumnStats(t *testing.T) {
	records := []*reportmodels.Record{
		record("amount", "10"),
		record("amount", "10"),
		record("amount", "20"),
		record("amount", "abc"),
		record("amount", ""),
		record("other", "1"),
	}
	first := ColumnStats(records, "amount")
	assert.Equal(t, reportmodels.ColumnStats{Column: "amount", DistinctCount: 3, NumericDistinct: 2, NumericSum: 30}, first)
	assert.Equal(t, first, ColumnStats(records, "amount"))
}

func TestQueryAndStatsThroughService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page, err := e.svc.Query(ctx, e.admin, e.company.ID, `{"sort":{"column":"amount","direction":"desc"},"pagination":{"page":1,"pageSize":2}}`)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []string{"20", "10"}, values(page.Items, "amount"))
	require.NotEmpty(t, page.Columns)
	assert.Equal(t, "company", page.Columns[0].Key)

	stats, err := e.svc.Stats(ctx, e.admin, primitive.NilObjectID, "", "amount")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DistinctCount)
	assert.Equal(t, float64(30), stats.NumericSum)

	_, err = e.svc.Stats(ctx, e.admin, primitive.NilObjectID, "", "")
	assert.True(t, common.IsValidation(err))

	_, err = e.svc.Query(ctx, e.admin, primitive.NilObjectID, "{nope")
	assert.True(t, common.IsValidation(err))
}

func TestExportWritesVisibleColumns(t *testing.T) {
	e := newEnv(t)
	e.svc.opts.VisibleColumns = 7

	var buf bytes.Buffer
	n, err := e.svc.Export(context.Background(), e.agent, primitive.NilObjectID, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"company", "project", "supervisor", "excel", "sheetName", "name", "amount"}, rows[0])
	assert.Equal(t, "Lead 2", rows[1][5])
	assert.Equal(t, "20", rows[1][6])
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	e := newEnv(t)
	svc := NewReportService(e.st, authsvc.NewUserService(e.st.Users), Options{})
	assert.Equal(t, 8, svc.opts.VisibleColumns)
	assert.Equal(t, 25, svc.opts.DefaultPageSize)

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), e.agent, primitive.NilObjectID, "", &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"company", "project", "supervisor", "excel", "sheetName", "name", "amount"}, rows[0])
}
