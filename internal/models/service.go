package models

import (
	"time"
)

type Service struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	ShortDescription string     `json:"short_description" yaml:"short_description"`
	Price            float64    `json:"price" yaml:"price"`
	Category         string     `json:"category" yaml:"category"`
	Subcategory      string     `json:"subcategory" yaml:"subcategory"`
	Duration         string     `json:"duration" yaml:"duration"`
	Deliverables     []string   `json:"deliverables" yaml:"deliverables"`
	Skills           []string   `json:"skills" yaml:"skills"`
	Provider         Provider   `json:"provider" yaml:"-"`
	Images           []string   `json:"images" yaml:"images"`
	Rating           float64    `json:"rating" yaml:"rating"`
	ReviewCount      int        `json:"review_count" yaml:"review_count"`
	IsAvailable      bool       `json:"is_available" yaml:"is_available"`
	Liked            bool       `json:"liked"`
	CreatedAt        time.Time  `json:"created_at" yaml:"-"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// Clone returns a deep copy so catalog records can be handed out without
// exposing the backing slices.
func (s Service) Clone() Service {
	out := s
	out.Deliverables = cloneStrings(s.Deliverables)
	out.Skills = cloneStrings(s.Skills)
	out.Images = cloneStrings(s.Images)
	out.Provider = s.Provider.Clone()
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

type ServiceDetails struct {
	Service  Service   `json:"service"`
	Category *Category `json:"category,omitempty"`
	Related  []Service `json:"related"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
