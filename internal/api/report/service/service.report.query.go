package reportsvc

import (
	"encoding/json"
	"sort"
	"strings"

	reportdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/dto"
	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Query = reportdto.ReportQuery

var errColumnRequired = common.Validation("column is required", nil)

// ParseQuery decodes the JSON query document. An empty document is the
// empty query.
func ParseQuery(raw string) (Query, error) {
	var q Query
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return q, nil
	}
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return Query{}, common.InvalidFormat("query is not a valid JSON document", err)
	}
	if err := global.ValidateStruct(q); err != nil {
		return Query{}, err
	}
	if q.DateRange != nil && q.DateRange.From != "" && q.DateRange.To != "" && q.DateRange.From > q.DateRange.To {
		return Query{}, common.Validation("dateRange.from is after dateRange.to", q.DateRange)
	}
	return q, nil
}

// Apply filters, searches and sorts records. The input slice is not
// modified.
func Apply(records []*reportmodels.Record, columns []reportmodels.Column, q Query, tag language.Tag) []*reportmodels.Record {
	dateColumn := ""
	if q.DateRange != nil {
		dateColumn = q.DateRange.Column
		if dateColumn == "" {
			dateColumn = firstOfType(columns, reportmodels.TypeDate)
		}
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]*reportmodels.Record, 0, len(records))
	for _, r := range records {
		if !matchFilters(r, q.Filters) {
			continue
		}
		if q.DateRange != nil && !inDateRange(r.Get(dateColumn), q.DateRange) {
			continue
		}
		if search != "" && !matchSearch(r, search) {
			continue
		}
		out = append(out, r)
	}

	if q.Sort != nil && q.Sort.Column != "" {
		sortRecords(out, q.Sort.Column, q.Sort.Direction == "desc", tag)
	}
	return out
}

// matchFilters ORs the accepted values of one column and ANDs columns.
// Columns with no accepted values do not filter.
func matchFilters(r *reportmodels.Record, filters map[string][]string) bool {
	for key, accepted := range filters {
		if len(accepted) == 0 {
			continue
		}
		value := r.Get(key)
		ok := false
		for _, a := range accepted {
			if a == value {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// inDateRange compares the YYYY-MM-DD prefix of value with the bounds.
// Values without a date prefix never match.
func inDateRange(value string, dr *reportdto.DateRange) bool {
	value = strings.TrimSpace(value)
	if !datePrefix.MatchString(value) {
		return false
	}
	day := value[:10]
	if dr.From != "" && day < dr.From {
		return false
	}
	if dr.To != "" && day > dr.To {
		return false
	}
	return true
}

func matchSearch(r *reportmodels.Record, needle string) bool {
	for _, key := range r.Keys() {
		if strings.Contains(strings.ToLower(r.Get(key)), needle) {
			return true
		}
	}
	return false
}

// sortRecords orders by one column, numerically when both values are
// numbers and by locale collation otherwise. Ties keep their order.
func sortRecords(records []*reportmodels.Record, key string, desc bool, tag language.Tag) {
	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		c := compareValues(col, records[i].Get(key), records[j].Get(key))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareValues(col *collate.Collator, a, b string) int {
	fa, okA := parseNumber(a)
	fb, okB := parseNumber(b)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return col.CompareString(a, b)
}

func firstOfType(columns []reportmodels.Column, typ string) string {
	for _, c := range columns {
		if c.Type == typ {
			return c.Key
		}
	}
	return ""
}

// Paginate slices one page out of records. Pages past the end are empty.
func Paginate(records []*reportmodels.Record, columns []reportmodels.Column, p reportdto.Pagination, defaultSize int) reportmodels.Page {
	page, size := p.Page, p.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	start := (page - 1) * size
	if start > len(records) {
		start = len(records)
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return reportmodels.Page{
		Items:    records[start:end],
		Total:    len(records),
		Page:     page,
		PageSize: size,
		Columns:  columns,
	}
}
