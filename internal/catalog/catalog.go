// Package catalog holds the immutable set of services, providers and
// categories the marketplace is browsed over, and the listing routine
// that filters and orders it.
package catalog

import (
	"fmt"
	"sort"

	"engmarket/internal/models"
)

// Catalog is built once at start-up and never mutated afterwards. Every
// accessor returns copies.
type Catalog struct {
	services   []models.Service
	providers  []models.Provider
	categories []models.Category

	serviceIdx  map[string]int
	providerIdx map[string]int
	categoryIdx map[string]int
}

// New builds a catalog. Empty or duplicated identifiers are rejected;
// dangling references are left for Validate to report.
func New(providers []models.Provider, categories []models.Category, services []models.Service) (*Catalog, error) {
	c := &Catalog{
		serviceIdx:  make(map[string]int, len(services)),
		providerIdx: make(map[string]int, len(providers)),
		categoryIdx: make(map[string]int, len(categories)),
	}

	for _, p := range providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider %q: empty id", p.Name)
		}
		if _, dup := c.providerIdx[p.ID]; dup {
			return nil, fmt.Errorf("provider %s: duplicate id", p.ID)
		}
		c.providerIdx[p.ID] = len(c.providers)
		c.providers = append(c.providers, p.Clone())
	}

	for _, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("category %q: empty id", cat.Name)
		}
		if _, dup := c.categoryIdx[cat.ID]; dup {
			return nil, fmt.Errorf("category %s: duplicate id", cat.ID)
		}
		c.categoryIdx[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat.Clone())
	}

	for _, s := range services {
		if s.ID == "" {
			return nil, fmt.Errorf("service %q: empty id", s.Title)
		}
		if _, dup := c.serviceIdx[s.ID]; dup {
			return nil, fmt.Errorf("service %s: duplicate id", s.ID)
		}
		if s.Price < 0 {
			return nil, fmt.Errorf("service %s: negative price", s.ID)
		}
		if s.Rating < 0 || s.Rating > 5 {
			return nil, fmt.Errorf("service %s: rating %.2f out of range", s.ID, s.Rating)
		}
		if s.ReviewCount < 0 {
			return nil, fmt.Errorf("service %s: negative review count", s.ID)
		}
		s = s.Clone()
		s.Liked = false
		c.serviceIdx[s.ID] = len(c.services)
		c.services = append(c.services, s)
	}

	return c, nil
}

// Services returns the full collection in catalog order.
func (c *Catalog) Services() []models.Service {
	out := make([]models.Service, len(c.services))
	for i, s := range c.services {
		out[i] = s.Clone()
	}
	return out
}

func (c *Catalog) Providers() []models.Provider {
	out := make([]models.Provider, len(c.providers))
	for i, p := range c.providers {
		out[i] = p.Clone()
	}
	return out
}

// Categories returns the categories annotated with the number of services
// in each and the cheapest price among them.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = c.annotate(cat)
	}
	return out
}

func (c *Catalog) ServiceByID(id string) (models.Service, error) {
	i, ok := c.serviceIdx[id]
	if !ok {
		return models.Service{}, models.ErrServiceNotFound
	}
	return c.services[i].Clone(), nil
}

func (c *Catalog) ProviderByID(id string) (models.Provider, error) {
	i, ok := c.providerIdx[id]
	if !ok {
		return models.Provider{}, models.ErrProviderNotFound
	}
	return c.providers[i].Clone(), nil
}

func (c *Catalog) CategoryByID(id string) (models.Category, error) {
	i, ok := c.categoryIdx[id]
	if !ok {
		return models.Category{}, models.ErrCategoryNotFound
	}
	return c.annotate(c.categories[i]), nil
}

// HasService reports whether id is a known service identifier.
func (c *Catalog) HasService(id string) bool {
	_, ok := c.serviceIdx[id]
	return ok
}

// ServicesByProvider returns the provider's services in catalog order.
func (c *Catalog) ServicesByProvider(providerID string) []models.Service {
	var out []models.Service
	for _, s := range c.services {
		if s.Provider.ID == providerID {
			out = append(out, s.Clone())
		}
	}
	return out
}

// PriceBounds returns the cheapest and most expensive price in the catalog.
func (c *Catalog) PriceBounds() (float64, float64) {
	if len(c.services) == 0 {
		return 0, 0
	}
	lo, hi := c.services[0].Price, c.services[0].Price
	for _, s := range c.services[1:] {
		if s.Price < lo {
			lo = s.Price
		}
		if s.Price > hi {
			hi = s.Price
		}
	}
	return lo, hi
}

// Locations returns the distinct provider locations, sorted.
func (c *Catalog) Locations() []string {
	seen := make(map[string]struct{})
	for _, s := range c.services {
		seen[s.Provider.Location] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) annotate(cat models.Category) models.Category {
	out := cat.Clone()
	out.ServiceCount = 0
	out.MinPrice = 0
	for _, s := range c.services {
		if s.Category != cat.ID {
			continue
		}
		if out.ServiceCount == 0 || s.Price < out.MinPrice {
			out.MinPrice = s.Price
		}
		out.ServiceCount++
	}
	return out
}
