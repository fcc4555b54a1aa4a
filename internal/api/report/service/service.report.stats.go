package reportsvc

import (
	"strings"

	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
)

// ColumnStats counts the distinct non-empty values of column and sums the
// distinct numeric ones. Records lacking the column are skipped.
func ColumnStats(records []*reportmodels.Record, column string) reportmodels.ColumnStats {
	stats := reportmodels.ColumnStats{Column: column}
	distinct := map[string]bool{}
	numbers := map[float64]bool{}
	for _, r := range records {
		value := strings.TrimSpace(r.Get(column))
		if value == "" || distinct[value] {
			continue
		}
		distinct[value] = true
		if f, ok := parseNumber(value); ok && !numbers[f] {
			numbers[f] = true
			stats.NumericSum += f
		}
	}
	stats.DistinctCount = len(distinct)
	stats.NumericDistinct = len(numbers)
	return stats
}
