package catalog

import (
	"sort"

	"golang.org/x/exp/constraints"

	"engmarket/internal/models"
)

func ascending[T constraints.Ordered](a, b T) bool  { return a < b }
func descending[T constraints.Ordered](a, b T) bool { return a > b }

// Sort orders services in place by the given key. The sort is stable, so
// ties keep their relative input order.
func Sort(services []models.Service, key models.SortKey) {
	if len(services) < 2 {
		return
	}

	var less func(a, b models.Service) bool
	switch key {
	case models.SortPriceLow:
		less = func(a, b models.Service) bool { return ascending(a.Price, b.Price) }
	case models.SortPriceHigh:
		less = func(a, b models.Service) bool { return descending(a.Price, b.Price) }
	case models.SortNewest:
		less = func(a, b models.Service) bool { return a.CreatedAt.After(b.CreatedAt) }
	case models.SortPopular:
		less = func(a, b models.Service) bool { return descending(a.ReviewCount, b.ReviewCount) }
	default:
		less = func(a, b models.Service) bool { return descending(a.Rating, b.Rating) }
	}

	sort.SliceStable(services, func(i, j int) bool {
		return less(services[i], services[j])
	})
}

// List runs the whole listing routine: one filtering pass, then one sort.
func List(services []models.Service, q models.ListingQuery) []models.Service {
	q = NormalizeQuery(q)
	out := Filter(services, q)
	Sort(out, q.Sort)
	return out
}

// Related picks up to n other services from the same category, then from
// the same provider.
func Related(services []models.Service, target models.Service, n int) []models.Service {
	if n <= 0 {
		return []models.Service{}
	}
	out := make([]models.Service, 0, n)
	seen := map[string]struct{}{target.ID: {}}

	pick := func(match func(models.Service) bool) {
		for _, s := range services {
			if len(out) >= n {
				return
			}
			if _, dup := seen[s.ID]; dup || !match(s) {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, s)
		}
	}
	pick(func(s models.Service) bool { return s.Category == target.Category })
	pick(func(s models.Service) bool { return s.Provider.ID == target.Provider.ID })
	return out
}
