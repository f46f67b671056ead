package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"engmarket/internal/models"
)

const (
	ExperienceEntry  = models.ExperienceEntry
	ExperienceMid    = models.ExperienceMid
	ExperienceSenior = models.ExperienceSenior
	ExperienceExpert = models.ExperienceExpert

	DeliveryUpTo3Days  = "1-3"
	DeliveryUpTo7Days  = "4-7"
	DeliveryUpTo2Weeks = "1-2weeks"
	DeliveryOver2Weeks = "2weeks+"
)

// NormalizeQuery folds empty selectors into the "all" sentinel, clamps a negative lower price bound to zero and replaces an
// unknown sort key with the default. Price bounds are otherwise kept as
// given: an upper bound below the lower one simply matches nothing. Free
// text is matched as typed, surrounding spaces included.
func NormalizeQuery(q models.ListingQuery) models.ListingQuery {
	q.Category = normalizeSelector(q.Category)
	q.Subcategory = normalizeSelector(q.Subcategory)
	q.Location = normalizeSelector(q.Location)
	q.Experience = normalizeSelector(strings.ToLower(q.Experience))
	q.Delivery = normalizeSelector(strings.ToLower(q.Delivery))
	if q.MinPrice < 0 {
		q.MinPrice = 0
	}
	if !q.Sort.Valid() {
		q.Sort = models.SortRating
	}
	return q
}

func normalizeSelector(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, models.FilterAll) {
		return models.FilterAll
	}
	return v
}

// Filter keeps the services that satisfy every active predicate, in input
// order. The query must already be normalized.
func Filter(services []models.Service, q models.ListingQuery) []models.Service {
	needle := strings.ToLower(q.Query)
	location := strings.ToLower(q.Location)

	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if needle != "" && !matchesQuery(s, needle) {
			continue
		}
		if q.Category != models.FilterAll && s.Category != q.Category {
			continue
		}
		if q.Subcategory != models.FilterAll && s.Subcategory != q.Subcategory {
			continue
		}
		if s.Price < q.MinPrice || s.Price > q.MaxPrice {
			continue
		}
		if q.Location != models.FilterAll && !strings.Contains(strings.ToLower(s.Provider.Location), location) {
			continue
		}
		if q.Experience != models.FilterAll && !MatchesExperience(s.Provider.YearsExperience, q.Experience) {
			continue
		}
		if q.Delivery != models.FilterAll && !MatchesDelivery(s.Duration, q.Delivery) {
			continue
		}
		if q.AvailableOnly && !s.IsAvailable {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesQuery(s models.Service, needle string) bool {
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.ShortDescription), needle) ||
		strings.Contains(strings.ToLower(s.Provider.Name), needle)
}

// MatchesExperience maps years of experience onto the level buckets of the
// marketplace filter. Unknown levels match nothing.
func MatchesExperience(years int, level string) bool {
	switch level {
	case ExperienceEntry:
		return years < 3
	case ExperienceMid:
		return years >= 3 && years < 8
	case ExperienceSenior:
		return years >= 8 && years < 15
	case ExperienceExpert:
		return years >= 15
	}
	return false
}

// MatchesDelivery compares the upper bound of a duration label such as
// "7-10 days" or "1-2 weeks" with a delivery bucket.
func MatchesDelivery(duration, bucket string) bool {
	days, ok := MaxDurationDays(duration)
	if !ok {
		return false
	}
	switch bucket {
	case DeliveryUpTo3Days:
		return days <= 3
	case DeliveryUpTo7Days:
		return days >= 4 && days <= 7
	case DeliveryUpTo2Weeks:
		return days >= 8 && days <= 14
	case DeliveryOver2Weeks:
		return days > 14
	}
	return false
}

var numberRe = regexp.MustCompile(`\d+`)

// MaxDurationDays returns the largest number in the label, in days.
func MaxDurationDays(duration string) (int, bool) {
	nums := numberRe.FindAllString(duration, -1)
	if len(nums) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(nums[len(nums)-1])
	if err != nil {
		return 0, false
	}
	if strings.Contains(strings.ToLower(duration), "week") {
		n *= 7
	}
	return n, true
}
