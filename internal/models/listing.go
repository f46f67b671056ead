package models

type SortKey string

const (
	SortRating    SortKey = "rating"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
)

// FilterAll is the sentinel accepted by category, location, experience
// and delivery filters to mean "no restriction".
const FilterAll = "all"

const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
	ExperienceExpert = "expert"
)

// ExperienceLevels lists the provider experience levels in ascending order.
var ExperienceLevels = []string{ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExpert}

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortRating, SortPriceLow, SortPriceHigh, SortNewest, SortPopular:
		return true
	}
	return false
}

type ListingQuery struct {
	Query         string  `json:"q"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	Location      string  `json:"location"`
	Experience    string  `json:"experience"`
	Delivery      string  `json:"delivery"`
	AvailableOnly bool    `json:"available"`
	Sort          SortKey `json:"sort"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

// DefaultListingQuery mirrors the initial state of the marketplace filters.
func DefaultListingQuery() ListingQuery {
	return ListingQuery{
		Category:   FilterAll,
		Location:   FilterAll,
		Experience: FilterAll,
		Delivery:   FilterAll,
		MinPrice:   DefaultMinPrice,
		MaxPrice:   DefaultMaxPrice,
		Sort:       SortRating,
	}
}

type ListingResult struct {
	Services []Service `json:"services"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	HasNext  bool      `json:"has_next"`
	MinPrice float64   `json:"min_price"`
	MaxPrice float64   `json:"max_price"`
	Sort     SortKey   `json:"sort"`

	// Locations feeds the location filter options.
	Locations []string `json:"locations"`
}
