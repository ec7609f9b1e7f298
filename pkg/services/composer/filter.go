package composer

import "github.com/de-tools/salespulse/pkg/models/domain"

// Filter returns the rows satisfying every active filter of sel. The input
// slice is not modified.
func Filter(sel domain.Selection, rows []domain.SalesRecord) []domain.SalesRecord {
	return filterExcept(sel, rows, "")
}

// filterExcept applies every active filter except skip.
func filterExcept(sel domain.Selection, rows []domain.SalesRecord, skip domain.FilterKey) []domain.SalesRecord {
	active := activeFilters(sel, skip)
	out := make([]domain.SalesRecord, 0, len(rows))
	for _, r := range rows {
		if matches(r, active) {
			out = append(out, r)
		}
	}
	return out
}

type predicate struct {
	key   domain.FilterKey
	value string
}

func activeFilters(sel domain.Selection, skip domain.FilterKey) []predicate {
	var active []predicate
	for _, k := range domain.FilterKeys {
		if k == skip {
			continue
		}
		if v := sel.Filter(k); v != domain.All {
			active = append(active, predicate{key: k, value: v})
		}
	}
	return active
}

func matches(r domain.SalesRecord, active []predicate) bool {
	for _, p := range active {
		if r.Dimension(p.key) != p.value {
			return false
		}
	}
	return true
}
