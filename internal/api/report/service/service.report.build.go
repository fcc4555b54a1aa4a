package reportsvc

import (
	"context"
	"sort"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	hiersvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/service"
	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sheetLayout is the key order and projection of one sheet's row data.
type sheetLayout struct {
	order   []string
	visible map[string]bool // nil when every key may be shown
}

// BuildReport flattens everything p may see into records, one per row, in
// company, project, excel, sheet and row number order. Each hierarchy level
// is fetched with a single query. A sheet without visible rows still yields
// one record holding only its context.
func (s *ReportService) BuildReport(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID) ([]*reportmodels.Record, error) {
	projectFilter := hiersvc.ProjectFilterFor(p, store.ProjectFilter{})
	if !companyID.IsZero() {
		projectFilter.CompanyIDs = []primitive.ObjectID{companyID}
	}

	var companies []hiermodels.Company
	var err error
	if p.Role == authmodels.RoleAdmin {
		if companyID.IsZero() {
			companies, err = s.store.Companies.FindAll(ctx)
		} else {
			companies, err = s.store.Companies.FindByIDs(ctx, []primitive.ObjectID{companyID})
		}
		if err != nil {
			return nil, err
		}
		if len(companies) == 0 {
			return []*reportmodels.Record{}, nil
		}
		projectFilter.CompanyIDs = idsOf(companies, func(c hiermodels.Company) primitive.ObjectID { return c.ID })
	}

	projects, err := s.store.Projects.Find(ctx, projectFilter)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []*reportmodels.Record{}, nil
	}
	if p.Role != authmodels.RoleAdmin {
		companyIDs := utility.Unique(idsOf(projects, func(pr hiermodels.Project) primitive.ObjectID { return pr.CompanyID }))
		if companies, err = s.store.Companies.FindByIDs(ctx, companyIDs); err != nil {
			return nil, err
		}
	}

	excels, err := s.store.Excels.Find(ctx, store.ExcelFilter{
		ProjectIDs: idsOf(projects, func(pr hiermodels.Project) primitive.ObjectID { return pr.ID }),
	})
	if err != nil {
		return nil, err
	}

	var sheets []hiermodels.Sheet
	if len(excels) > 0 {
		sheets, err = s.store.Sheets.Find(ctx, store.SheetFilter{
			ExcelIDs: idsOf(excels, func(e hiermodels.Excel) primitive.ObjectID { return e.ID }),
		})
		if err != nil {
			return nil, err
		}
	}

	rowFilter := store.RowFilter{}
	if p.Role == authmodels.RoleAgent {
		sheets, rowFilter = agentSlice(sheets, p.UserID)
	}

	rowsBySheet := map[primitive.ObjectID][]sheetmodels.SheetRow{}
	layouts := map[primitive.ObjectID]sheetLayout{}
	if len(sheets) > 0 {
		sheetIDs := idsOf(sheets, func(sh hiermodels.Sheet) primitive.ObjectID { return sh.ID })
		rowFilter.SheetIDs = sheetIDs
		rows, err := s.store.Rows.FindAll(ctx, rowFilter)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			rowsBySheet[row.SheetID] = append(rowsBySheet[row.SheetID], row)
		}

		columns, err := s.store.Columns.FindBySheets(ctx, sheetIDs...)
		if err != nil {
			return nil, err
		}
		layouts = buildLayouts(columns, p.IsRestricted())
	}

	var supervisorIDs []primitive.ObjectID
	for _, pr := range projects {
		supervisorIDs = append(supervisorIDs, pr.SupervisorIDs...)
	}
	names, err := s.users.Names(ctx, utility.Unique(supervisorIDs))
	if err != nil {
		return nil, err
	}

	projectsByCompany := groupBy(projects, func(pr hiermodels.Project) primitive.ObjectID { return pr.CompanyID })
	excelsByProject := groupBy(excels, func(e hiermodels.Excel) primitive.ObjectID { return e.ProjectID })
	sheetsByExcel := groupBy(sheets, func(sh hiermodels.Sheet) primitive.ObjectID { return sh.ExcelID })

	records := []*reportmodels.Record{}
	for _, company := range companies {
		for _, project := range projectsByCompany[company.ID] {
			supervisor := joinNames(project.SupervisorIDs, names)
			for _, excel := range excelsByProject[project.ID] {
				for _, sheet := range sheetsByExcel[excel.ID] {
					base := func() *reportmodels.Record {
						r := reportmodels.NewRecord()
						r.Set(reportmodels.KeyCompany, company.Name)
						r.Set(reportmodels.KeyProject, project.Name)
						r.Set(reportmodels.KeySupervisor, supervisor)
						r.Set(reportmodels.KeyExcel, excel.Name)
						r.Set(reportmodels.KeySheetName, sheet.Name)
						return r
					}
					rows := rowsBySheet[sheet.ID]
					if len(rows) == 0 {
						records = append(records, base())
						continue
					}
					layout := layouts[sheet.ID]
					if p.IsRestricted() && layout.visible == nil {
						layout.visible = map[string]bool{}
					}
					for _, row := range rows {
						r := base()
						fillRow(r, row.Data, layout)
						records = append(records, r)
					}
				}
			}
		}
	}
	return records, nil
}

// agentSlice keeps the sheets where the agent holds ranges and returns a
// row filter limited to those ranges.
func agentSlice(sheets []hiermodels.Sheet, agentID primitive.ObjectID) ([]hiermodels.Sheet, store.RowFilter) {
	kept := []hiermodels.Sheet{}
	filter := store.RowFilter{RangesOnly: true}
	for i := range sheets {
		ranges := sheets[i].RangesFor(agentID)
		if len(ranges) == 0 {
			continue
		}
		kept = append(kept, sheets[i])
		for _, r := range ranges {
			filter.Ranges = append(filter.Ranges, store.RowRange{SheetID: sheets[i].ID, Start: r.StartRow, End: r.EndRow})
		}
	}
	return kept, filter
}

// buildLayouts derives per-sheet key order from column order. With
// onlyVisible set, hidden columns are left out of the projection.
func buildLayouts(columns []sheetmodels.Column, onlyVisible bool) map[primitive.ObjectID]sheetLayout {
	layouts := map[primitive.ObjectID]sheetLayout{}
	for _, col := range columns {
		layout := layouts[col.SheetID]
		if onlyVisible && layout.visible == nil {
			layout.visible = map[string]bool{}
		}
		if onlyVisible && !col.VisibleToUser {
			layouts[col.SheetID] = layout
			continue
		}
		layout.order = append(layout.order, col.DataKey)
		if onlyVisible {
			layout.visible[col.DataKey] = true
		}
		layouts[col.SheetID] = layout
	}
	return layouts
}

// fillRow appends row data after the context keys: registered columns in
// column order, then any other keys alphabetically. Context keys are never
// overwritten.
func fillRow(r *reportmodels.Record, data map[string]interface{}, layout sheetLayout) {
	seen := map[string]bool{}
	put := func(key string) {
		if seen[key] || r.Has(key) {
			return
		}
		seen[key] = true
		if layout.visible != nil && !layout.visible[key] {
			return
		}
		value, ok := data[key]
		if !ok {
			return
		}
		r.Set(key, utility.ToDisplayString(value))
	}
	for _, key := range layout.order {
		put(key)
	}
	rest := make([]string, 0, len(data))
	for key := range data {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		put(key)
	}
}

func joinNames(ids []primitive.ObjectID, names map[primitive.ObjectID]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok && name != "" {
			out = append(out, name)
		}
	}
	return strings.Join(out, ", ")
}

func idsOf[T any](items []T, id func(T) primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

// groupBy buckets items by parent id, keeping their order.
func groupBy[T any](items []T, parent func(T) primitive.ObjectID) map[primitive.ObjectID][]T {
	out := make(map[primitive.ObjectID][]T, len(items))
	for _, item := range items {
		key := parent(item)
		out[key] = append(out[key], item)
	}
	return out
}
