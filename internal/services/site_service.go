package services

import (
	"context"
	"sort"
	"strings"

	"engmarket/internal/catalog"
	"engmarket/internal/media"
	"engmarket/internal/models"
)

const (
	PageHome        = "home"
	PageMarketplace = "marketplace"
	PageService     = "service"
	PageCategories  = "categories"
	PageSignUp      = "sign-up"
)

const defaultFeaturedCount = 3

var homeKeywords = []string{
	"hire engineers online", "engineering services marketplace", "professional engineers",
	"structural engineer", "mechanical engineer", "electrical engineer", "civil engineer",
	"engineering consultant", "CAD services", "engineering design", "technical consulting",
	"engineering projects", "freelance engineers", "engineering solutions",
}

// SiteService builds the header and footer, per-page SEO metadata and the
// landing page from the catalog.
type SiteService struct {
	Catalog       *catalog.Catalog
	Media         media.Resolver
	Brand         string
	Title         string
	Description   string
	BaseURL       string
	FeaturedCount int
}

func (s *SiteService) url(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "/" {
		return base
	}
	return base + path
}

func (s *SiteService) Chrome(_ context.Context) models.SiteChrome {
	return models.SiteChrome{
		Brand: s.Brand,
		Title: s.Title,
		Navigation: []models.NavLink{
			{Label: "Home", Href: "/"},
			{Label: "Marketplace", Href: "/marketplace"},
			{Label: "Categories", Href: "/categories"},
			{Label: "Favorites", Href: "/favorites"},
		},
		CallToAct: models.NavLink{Label: "Get Started", Href: "/sign-up"},
		Footer: []models.FooterSection{
			{Title: "Platform", Links: []models.NavLink{
				{Label: "Home", Href: "/"},
				{Label: "Marketplace", Href: "/marketplace"},
				{Label: "Categories", Href: "/categories"},
				{Label: "Join as an Engineer", Href: "/sign-up"},
			}},
			{Title: "Categories", Links: s.categoryLinks()},
		},
		Social: []models.NavLink{
			{Label: "GitHub", Href: "#"},
			{Label: "Twitter", Href: "#"},
			{Label: "LinkedIn", Href: "#"},
			{Label: "Email", Href: "#"},
		},
	}
}

func (s *SiteService) categoryLinks() []models.NavLink {
	cats := s.Catalog.Categories()
	links := make([]models.NavLink, 0, len(cats))
	for _, c := range cats {
		links = append(links, models.NavLink{Label: c.Name, Href: "/marketplace?category=" + c.ID})
	}
	return links
}

// Page returns the metadata for a named page. The service page needs the
// id of the service it describes.
func (s *SiteService) Page(_ context.Context, page, serviceID string) (models.PageMetadata, error) {
	switch page {
	case PageHome:
		return models.PageMetadata{
			Page:        page,
			Title:       s.Brand + " - Connect with Professional Engineers Worldwide",
			Description: s.Description,
			Keywords:    homeKeywords,
			Canonical:   s.url("/"),
			OpenGraph: models.OpenGraph{
				Title:       s.Brand + " - Professional Engineering Services Worldwide",
				Description: "Connect with verified engineers for all your technical projects. Quality work, competitive rates, fast delivery.",
				Image:       s.url("/og-homepage.jpg"),
				Type:        "website",
				URL:         s.url("/"),
			},
			JSONLD: s.homeJSONLD(),
		}, nil
	case PageMarketplace:
		return models.PageMetadata{
			Page:        page,
			Title:       "Engineering Services Marketplace | " + s.Brand,
			Description: "Browse engineering services from verified professionals. Filter by category, price, location and delivery time.",
			Canonical:   s.url("/marketplace"),
			OpenGraph: models.OpenGraph{
				Title:       "Engineering Services Marketplace",
				Description: "Browse engineering services from verified professionals.",
				Type:        "website",
				URL:         s.url("/marketplace"),
			},
			JSONLD: s.marketplaceJSONLD(),
		}, nil
	case PageCategories:
		return models.PageMetadata{
			Page:        page,
			Title:       "Engineering Categories | " + s.Brand,
			Description: "Structural, mechanical, electrical and civil engineering services.",
			Canonical:   s.url("/categories"),
			OpenGraph:   models.OpenGraph{Title: "Engineering Categories", Type: "website", URL: s.url("/categories")},
		}, nil
	case PageSignUp:
		return models.PageMetadata{
			Page:        page,
			Title:       "Join " + s.Brand,
			Description: "Create an account to hire engineers or offer your engineering services.",
			Canonical:   s.url("/sign-up"),
			OpenGraph:   models.OpenGraph{Title: "Join " + s.Brand, Type: "website", URL: s.url("/sign-up")},
		}, nil
	case PageService:
		service, err := s.Catalog.ServiceByID(serviceID)
		if err != nil {
			return models.PageMetadata{}, err
		}
		path := "/marketplace/service/" + service.ID
		og := models.OpenGraph{
			Title:       service.Title,
			Description: service.ShortDescription,
			Type:        "product",
			URL:         s.url(path),
		}
		if len(service.Images) > 0 {
			og.Image = service.Images[0]
			if s.Media != nil {
				if u, err := s.Media.Resolve(og.Image); err == nil {
					og.Image = u
				}
			}
		}
		return models.PageMetadata{
			Page:        page,
			Title:       service.Title + " | " + s.Brand,
			Description: service.ShortDescription,
			Keywords:    service.Skills,
			Canonical:   s.url(path),
			OpenGraph:   og,
			JSONLD:      s.serviceJSONLD(service),
		}, nil
	}
	return models.PageMetadata{}, models.ErrPageNotFound
}

func (s *SiteService) organization() map[string]any {
	return map[string]any{
		"@type": "Organization",
		"name":  s.Brand,
		"url":   s.url("/"),
	}
}

func (s *SiteService) homeJSONLD() map[string]any {
	cats := s.Catalog.Categories()
	offers := make([]map[string]any, 0, len(cats))
	serviceTypes := make([]string, 0, len(cats))
	for _, c := range cats {
		offers = append(offers, map[string]any{
			"@type":       "OfferCatalog",
			"name":        c.Name,
			"description": c.Description,
		})
		serviceTypes = append(serviceTypes, c.Name)
	}
	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        s.Title,
		"description": s.Description,
		"url":         s.url("/"),
		"mainEntity": map[string]any{
			"@type":       "Service",
			"name":        "Engineering Services Marketplace",
			"description": "Platform connecting clients with professional engineers worldwide",
			"provider":    s.organization(),
			"serviceType": serviceTypes,
			"areaServed":  "Worldwide",
			"hasOfferCatalog": map[string]any{
				"@type":           "OfferCatalog",
				"name":            "Engineering Services",
				"itemListElement": offers,
			},
		},
		"breadcrumb": breadcrumb(listItem(1, "Home", s.url("/"))),
	}
}

func (s *SiteService) marketplaceJSONLD() map[string]any {
	services := s.Catalog.Services()
	items := make([]map[string]any, 0, len(services))
	for i, svc := range services {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     s.offer(svc),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "OfferCatalog",
		"name":            "Engineering Services",
		"url":             s.url("/marketplace"),
		"numberOfItems":   len(services),
		"itemListElement": items,
		"breadcrumb": breadcrumb(
			listItem(1, "Home", s.url("/")),
			listItem(2, "Marketplace", s.url("/marketplace")),
		),
	}
}

func (s *SiteService) serviceJSONLD(svc models.Service) map[string]any {
	out := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Service",
		"name":        svc.Title,
		"description": svc.Description,
		"serviceType": svc.Category,
		"provider": map[string]any{
			"@type":    "Person",
			"name":     svc.Provider.Name,
			"address":  svc.Provider.Location,
			"jobTitle": strings.Join(svc.Provider.Expertise, ", "),
		},
		"offers": s.offer(svc),
		"breadcrumb": breadcrumb(
			listItem(1, "Home", s.url("/")),
			listItem(2, "Marketplace", s.url("/marketplace")),
			listItem(3, svc.Title, s.url("/marketplace/service/"+svc.ID)),
		),
	}
	if svc.ReviewCount > 0 {
		out["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": svc.Rating,
			"reviewCount": svc.ReviewCount,
			"bestRating":  5,
		}
	}
	return out
}

func (s *SiteService) offer(svc models.Service) map[string]any {
	availability := "https://schema.org/OutOfStock"
	if svc.IsAvailable {
		availability = "https://schema.org/InStock"
	}
	return map[string]any{
		"@type":         "Offer",
		"name":          svc.Title,
		"price":         svc.Price,
		"priceCurrency": "USD",
		"availability":  availability,
		"url":           s.url("/marketplace/service/" + svc.ID),
	}
}

func breadcrumb(items ...map[string]any) map[string]any {
	return map[string]any{
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

func listItem(position int, name, item string) map[string]any {
	return map[string]any{
		"@type":    "ListItem",
		"position": position,
		"name":     name,
		"item":     item,
	}
}

// Landing assembles the home page: catalog statistics, the top rated
// services and the categories.
func (s *SiteService) Landing(ctx context.Context) (models.LandingPage, error) {
	meta, err := s.Page(ctx, PageHome, "")
	if err != nil {
		return models.LandingPage{}, err
	}

	services := s.Catalog.Services()
	providers := s.Catalog.Providers()
	stats := models.LandingStats{
		Services:   len(services),
		Providers:  len(providers),
		Categories: len(s.Catalog.Categories()),
	}
	var ratingSum float64
	for _, svc := range services {
		ratingSum += svc.Rating
	}
	if len(services) > 0 {
		stats.AvgRating = float64(int(ratingSum/float64(len(services))*10+0.5)) / 10
	}
	for _, p := range providers {
		stats.Projects += p.CompletedProjects
	}

	n := s.FeaturedCount
	if n <= 0 {
		n = defaultFeaturedCount
	}
	featured := make([]models.Service, len(services))
	copy(featured, services)
	sort.SliceStable(featured, func(i, j int) bool {
		if featured[i].Rating != featured[j].Rating {
			return featured[i].Rating > featured[j].Rating
		}
		return featured[i].ReviewCount > featured[j].ReviewCount
	})
	if len(featured) > n {
		featured = featured[:n]
	}
	for i := range featured {
		if err := media.ResolveService(s.Media, &featured[i]); err != nil {
			return models.LandingPage{}, err
		}
	}

	return models.LandingPage{
		Metadata:   meta,
		Stats:      stats,
		Featured:   featured,
		Categories: s.Catalog.Categories(),
	}, nil
}
