package billing

import (
	"sort"
	"strings"
)

// Plan is a static catalog entry. Plans are configuration data, injected into
// the service at construction so tests can substitute alternate catalogs.
type Plan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         int      `json:"price"`
	BillingPeriod string   `json:"period"`
	Features      []string `json:"features"`
	DurationDays  int      `json:"-"`
}

// Catalog is the set of purchasable plans keyed by plan type.
type Catalog map[string]Plan

// DefaultCatalog returns the two production plans.
func DefaultCatalog() Catalog {
	return Catalog{
		"monthly": {
			ID:            "monthly",
			Name:          "월간 구독",
			Price:         4900,
			BillingPeriod: "monthly",
			Features:      []string{"모든 동화 무제한", "오프라인 저장"},
			DurationDays:  30,
		},
		"yearly": {
			ID:            "yearly",
			Name:          "연간 구독",
			Price:         39000,
			BillingPeriod: "yearly",
			Features:      []string{"모든 동화 무제한", "오프라인 저장", "2개월 무료"},
			DurationDays:  365,
		},
	}
}

// Get looks up a plan by type, case-insensitively.
func (c Catalog) Get(planType string) (Plan, bool) {
	p, ok := c[strings.ToLower(strings.TrimSpace(planType))]
	return p, ok
}

// List returns the catalog in a stable order (monthly before yearly,
// remaining plans by id).
func (c Catalog) List() []Plan {
	ordered := []string{"monthly", "yearly"}
	seen := make(map[string]struct{}, len(ordered))
	out := make([]Plan, 0, len(c))
	for _, id := range ordered {
		if p, ok := c[id]; ok {
			out = append(out, p)
			seen[id] = struct{}{}
		}
	}
	rest := make([]string, 0, len(c))
	for id := range c {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, c[id])
	}
	return out
}
