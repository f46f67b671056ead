package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"engmarket/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

// Source produces a catalog once at start-up.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// EmbeddedSource loads the dataset compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) (*Catalog, error) {
	return Parse(seedYAML)
}

// FileSource loads a YAML file with the same layout as the embedded seed.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

type seedFile struct {
	Providers  []models.Provider `yaml:"providers"`
	Categories []models.Category `yaml:"categories"`
	Services   []seedService     `yaml:"services"`
}

type seedService struct {
	models.Service `yaml:",inline"`
	ProviderID     string `yaml:"provider_id"`
	CreatedAt      string `yaml:"created_at"`
	UpdatedAt      string `yaml:"updated_at"`
}

// Parse decodes a YAML catalog. Services name their provider by id and
// receive a copy of that provider's record.
func Parse(data []byte) (*Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	byID := make(map[string]models.Provider, len(f.Providers))
	for _, p := range f.Providers {
		byID[p.ID] = p
	}

	services := make([]models.Service, 0, len(f.Services))
	for _, raw := range f.Services {
		s := raw.Service
		if p, ok := byID[raw.ProviderID]; ok {
			s.Provider = p.Clone()
		} else {
			// keep the reference so Validate can report it
			s.Provider = models.Provider{ID: raw.ProviderID}
		}

		created, err := ParseDate(raw.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("service %s created_at: %w", s.ID, err)
		}
		s.CreatedAt = created

		if raw.UpdatedAt != "" {
			updated, err := ParseDate(raw.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("service %s updated_at: %w", s.ID, err)
			}
			s.UpdatedAt = &updated
		}
		services = append(services, s)
	}

	return New(f.Providers, f.Categories, services)
}

// ParseDate accepts plain dates as well as RFC 3339 timestamps.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	layouts := []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s", value)
}
