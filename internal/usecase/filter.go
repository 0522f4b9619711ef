package usecase

import (
	"strings"

	"ConfluenceBoard/internal/domain/models"
)

const (
	// FilterAll passes every result through.
	FilterAll = "All"
	// FilterNoConfluence selects results with no directional agreement.
	FilterNoConfluence = "No Confluence"
)

// FilterCategories lists the selectable filter values, matching the
// dashboard's badge categories.
func FilterCategories() []string {
	return []string{
		FilterAll,
		string(models.TrendStrongBullish),
		string(models.TrendBullish),
		string(models.TrendBearish),
		string(models.TrendStrongBearish),
		FilterNoConfluence,
	}
}

// Filter returns the subset of results matching the given category. A
// label category matches when the Summary or any Confluence cell contains
// it as a substring, mirroring the dashboard's client-side filtering.
func Filter(results []models.ConfluenceResult, category string) []models.ConfluenceResult {
	if category == "" || category == FilterAll {
		return results
	}

	out := make([]models.ConfluenceResult, 0, len(results))
	for _, r := range results {
		if category == FilterNoConfluence {
			if r.ConfluencePercent == 0 {
				out = append(out, r)
			}
			continue
		}
		if matchesLabel(r, category) {
			out = append(out, r)
		}
	}
	return out
}

func matchesLabel(r models.ConfluenceResult, category string) bool {
	if strings.Contains(string(r.Summary), category) {
		return true
	}
	for _, cell := range r.Confluence {
		if strings.Contains(cell, category) {
			return true
		}
	}
	return false
}
