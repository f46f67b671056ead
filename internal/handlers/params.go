package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"engmarket/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not. It also supports the
// standard net/http PathValue API.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// ParseListingQuery reads the marketplace query string over defaults.
// Malformed numbers keep the default value instead of failing the request.
func ParseListingQuery(values url.Values, defaults models.ListingQuery) models.ListingQuery {
	q := defaults

	if v, ok := values["q"]; ok {
		q.Query = v[0]
	}
	for key, dst := range map[string]*string{
		"category":    &q.Category,
		"subcategory": &q.Subcategory,
		"location":    &q.Location,
		"experience":  &q.Experience,
		"delivery":    &q.Delivery,
	} {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			*dst = v
		}
	}

	q.MinPrice = parseFloat(values.Get("min_price"), defaults.MinPrice)
	q.MaxPrice = parseFloat(values.Get("max_price"), defaults.MaxPrice)
	if v := values.Get("sort"); v != "" {
		q.Sort = models.SortKey(v)
	}
	if v, err := strconv.ParseBool(values.Get("available")); err == nil {
		q.AvailableOnly = v
	}
	q.Page = parseInt(values.Get("page"), 1)
	q.Limit = parseInt(values.Get("limit"), defaults.Limit)
	return q
}

func parseFloat(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return def
	}
	return v
}

func parseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return def
	}
	return v
}
