package models

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type FooterSection struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

type SiteChrome struct {
	Brand      string          `json:"brand"`
	Title      string          `json:"title"`
	Navigation []NavLink       `json:"navigation"`
	CallToAct  NavLink         `json:"call_to_action"`
	Footer     []FooterSection `json:"footer"`
	Social     []NavLink       `json:"social"`
}

type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
}

type PageMetadata struct {
	Page        string         `json:"page"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords,omitempty"`
	Canonical   string         `json:"canonical"`
	OpenGraph   OpenGraph      `json:"open_graph"`
	JSONLD      map[string]any `json:"json_ld,omitempty"`
}

type LandingStats struct {
	Services   int     `json:"services"`
	Providers  int     `json:"providers"`
	Categories int     `json:"categories"`
	AvgRating  float64 `json:"avg_rating"`
	Projects   int     `json:"completed_projects"`
}

type LandingPage struct {
	Metadata   PageMetadata `json:"metadata"`
	Stats      LandingStats `json:"stats"`
	Featured   []Service    `json:"featured"`
	Categories []Category   `json:"categories"`
}
