package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engmarket/internal/models"
)

func ids(services []models.Service) []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.ID
	}
	return out
}

func TestPriceRangeExample(t *testing.T) {
	c := loadSeed(t)

	q := models.DefaultListingQuery()
	q.MinPrice = 2000
	q.MaxPrice = 4000
	q.Sort = models.SortPriceLow

	got := List(c.Services(), q)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "5", "2"}, ids(got))
	for _, s := range got {
		assert.Contains(t, []float64{2500, 3200, 2800}, s.Price)
	}
}

func TestListFilters(t *testing.T) {
	c := loadSeed(t)

	cases := []struct {
		name   string
		mutate func(q *models.ListingQuery)
		want   []string
	}{
		{"defaults keep everything", func(q *models.ListingQuery) {}, []string{"1", "3", "6", "2", "5", "4"}},
		{"query matches provider name", func(q *models.ListingQuery) { q.Query = "EMILY" }, []string{"3", "5"}},
		{"query matches short description", func(q *models.ListingQuery) { q.Query = "permitting" }, []string{"3"}},
		{"query keeps surrounding spaces", func(q *models.ListingQuery) { q.Query = "  structural" }, []string{}},
		{"whitespace query is a substring", func(q *models.ListingQuery) { q.Query = "   " }, []string{}},
		{"category", func(q *models.ListingQuery) { q.Category = "structural" }, []string{"1", "6"}},
		{"empty category means all", func(q *models.ListingQuery) { q.Category = "" }, []string{"1", "3", "6", "2", "5", "4"}},
		{"unknown category", func(q *models.ListingQuery) { q.Category = "aerospace" }, []string{}},
		{"subcategory", func(q *models.ListingQuery) { q.Subcategory = "hvac" }, []string{"2"}},
		{"location substring", func(q *models.ListingQuery) { q.Location = "denver" }, []string{"3", "5"}},
		{"expert providers", func(q *models.ListingQuery) { q.Experience = ExperienceExpert }, []string{"1", "6"}},
		{"senior providers", func(q *models.ListingQuery) { q.Experience = ExperienceSenior }, []string{"3", "2", "5", "4"}},
		{"entry providers", func(q *models.ListingQuery) { q.Experience = ExperienceEntry }, []string{}},
		{"delivery within a week", func(q *models.ListingQuery) { q.Delivery = DeliveryUpTo7Days }, []string{"3", "2"}},
		{"delivery over two weeks", func(q *models.ListingQuery) { q.Delivery = DeliveryOver2Weeks }, []string{"6", "4"}},
		{"inverted price range", func(q *models.ListingQuery) { q.MinPrice, q.MaxPrice = 5000, 1000 }, []string{}},
		{"conjunction", func(q *models.ListingQuery) {
			q.Category = "electrical"
			q.MaxPrice = 3000
			q.Query = "design"
		}, []string{"3", "5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := models.DefaultListingQuery()
			tc.mutate(&q)
			got := ids(List(c.Services(), q))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListResultIsSubsetAndPredicatesHold(t *testing.T) {
	c := loadSeed(t)
	all := c.Services()
	byID := make(map[string]models.Service, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}

	queries := []string{"", "design", "chen", "zzz"}
	categories := []string{"all", "structural", "electrical", "civil"}
	locations := []string{"all", "ca", "seattle"}
	ranges := [][2]float64{{0, 10000}, {2000, 4000}, {4500, 4500}}

	for _, text := range queries {
		for _, cat := range categories {
			for _, loc := range locations {
				for _, r := range ranges {
					q := models.DefaultListingQuery()
					q.Query, q.Category, q.Location = text, cat, loc
					q.MinPrice, q.MaxPrice = r[0], r[1]

					got := List(all, q)
					seen := map[string]bool{}
					for _, s := range got {
						orig, ok := byID[s.ID]
						require.True(t, ok, "fabricated record %s", s.ID)
						require.False(t, seen[s.ID], "duplicated record %s", s.ID)
						seen[s.ID] = true
						require.Equal(t, orig.Title, s.Title)

						require.True(t, text == "" || matchesQuery(s, text))
						require.True(t, cat == "all" || s.Category == cat)
						require.True(t, s.Price >= r[0] && s.Price <= r[1])
					}
				}
			}
		}
	}
}

func TestSortOrders(t *testing.T) {
	c := loadSeed(t)

	cases := map[models.SortKey][]string{
		models.SortRating:    {"1", "3", "6", "2", "5", "4"},
		models.SortPriceLow:  {"3", "1", "5", "2", "4", "6"},
		models.SortPriceHigh: {"6", "4", "2", "5", "1", "3"},
		models.SortNewest:    {"6", "5", "4", "3", "2", "1"},
		models.SortPopular:   {"3", "1", "5", "2", "4", "6"},
		"bogus":              {"1", "3", "6", "2", "5", "4"},
	}
	for key, want := range cases {
		q := models.DefaultListingQuery()
		q.Sort = key
		assert.Equal(t, want, ids(List(c.Services(), q)), "sort %s", key)
	}
}

func TestPriceSortsAreReversed(t *testing.T) {
	c := loadSeed(t)

	low := models.DefaultListingQuery()
	low.Sort = models.SortPriceLow
	high := low
	high.Sort = models.SortPriceHigh

	asc := ids(List(c.Services(), low))
	desc := ids(List(c.Services(), high))
	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestNormalizeQuery(t *testing.T) {
	q := NormalizeQuery(models.ListingQuery{
		Query:      "  hvac ",
		Category:   "ALL",
		Experience: "Senior",
		MinPrice:   -5,
		MaxPrice:   100,
		Sort:       "cheapest",
	})
	assert.Equal(t, "hvac", q.Query)
	assert.Equal(t, models.FilterAll, q.Category)
	assert.Equal(t, models.FilterAll, q.Location)
	assert.Equal(t, ExperienceSenior, q.Experience)
	assert.Equal(t, 0.0, q.MinPrice)
	assert.Equal(t, 100.0, q.MaxPrice)
	assert.Equal(t, models.SortRating, q.Sort)
}

func TestMaxDurationDays(t *testing.T) {
	cases := map[string]int{
		"7-10 days":  10,
		"3-5 days":   5,
		"1-2 weeks":  14,
		"2 weeks":    14,
		"21-30 days": 30,
	}
	for label, want := range cases {
		got, ok := MaxDurationDays(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}
	_, ok := MaxDurationDays("flexible")
	assert.False(t, ok)
	assert.False(t, MatchesDelivery("flexible", DeliveryUpTo3Days))
	assert.False(t, MatchesExperience(40, "legend"))
}

func TestRelated(t *testing.T) {
	c := loadSeed(t)

	solar, err := c.ServiceByID("3")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, ids(Related(c.Services(), solar, 4)))
	assert.Equal(t, []string{"4"}, ids(Related(c.Services(), solar, 1)))
	assert.Empty(t, Related(c.Services(), solar, 0))
	assert.NotNil(t, Related(c.Services(), solar, 0))

	residential, err := c.ServiceByID("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, ids(Related(c.Services(), residential, 4)))
}
