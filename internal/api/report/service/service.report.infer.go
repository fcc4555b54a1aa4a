package reportsvc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// textHints force a text column whatever its values look like.
var textHints = []string{"phone", "email", "name", "surname"}

// InferColumns types every key in first-seen order across records. The first
// visible keys are marked visible.
func InferColumns(records []*reportmodels.Record, visible int) []reportmodels.Column {
	var keys []string
	sample := map[string]string{}
	seen := map[string]bool{}
	for _, r := range records {
		for _, key := range r.Keys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			if _, ok := sample[key]; !ok {
				if v := strings.TrimSpace(r.Get(key)); v != "" {
					sample[key] = v
				}
			}
		}
	}

	columns := make([]reportmodels.Column, 0, len(keys))
	for i, key := range keys {
		columns = append(columns, reportmodels.Column{
			Key:     key,
			Type:    inferType(key, sample[key]),
			Visible: i < visible,
		})
	}
	return columns
}

func inferType(key, sample string) string {
	lower := strings.ToLower(key)
	for _, hint := range textHints {
		if strings.Contains(lower, hint) {
			return reportmodels.TypeText
		}
	}
	switch {
	case sample == "":
		return reportmodels.TypeText
	case datePrefix.MatchString(sample):
		return reportmodels.TypeDate
	}
	if _, ok := parseNumber(sample); ok {
		return reportmodels.TypeNumber
	}
	return reportmodels.TypeText
}

// parseNumber accepts finite decimal values.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
