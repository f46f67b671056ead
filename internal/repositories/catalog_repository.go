package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"engmarket/internal/catalog"
	"engmarket/internal/models"
)

// CatalogSchema creates the snapshot tables read by CatalogRepository. List
// columns hold JSON arrays and dates are ISO strings so the same schema
// works on MySQL, PostgreSQL and SQLite.
const CatalogSchema = `
CREATE TABLE IF NOT EXISTS providers (
	id                 VARCHAR(64) PRIMARY KEY,
	name               TEXT NOT NULL,
	company            TEXT NULL,
	avatar             TEXT NOT NULL,
	bio                TEXT NOT NULL,
	location           TEXT NOT NULL,
	years_experience   INTEGER NOT NULL,
	expertise          TEXT NULL,
	rating             DOUBLE PRECISION NOT NULL,
	completed_projects INTEGER NOT NULL,
	response_time      TEXT NOT NULL,
	languages          TEXT NULL,
	certifications     TEXT NULL,
	hourly_rate        DOUBLE PRECISION NULL,
	position           INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
	id          VARCHAR(64) PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	icon        TEXT NOT NULL,
	position    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subcategories (
	id          VARCHAR(64) NOT NULL,
	category_id VARCHAR(64) NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (category_id, id)
);
CREATE TABLE IF NOT EXISTS services (
	id                VARCHAR(64) PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL,
	short_description TEXT NOT NULL,
	price             DOUBLE PRECISION NOT NULL,
	category          VARCHAR(64) NOT NULL,
	subcategory       VARCHAR(64) NOT NULL,
	duration          TEXT NOT NULL,
	deliverables      TEXT NULL,
	skills            TEXT NULL,
	provider_id       VARCHAR(64) NOT NULL,
	images            TEXT NULL,
	rating            DOUBLE PRECISION NOT NULL,
	review_count      INTEGER NOT NULL,
	is_available      BOOLEAN NOT NULL,
	created_at        VARCHAR(32) NOT NULL,
	updated_at        VARCHAR(32) NULL,
	position          INTEGER NOT NULL
)`

// CatalogRepository reads and writes a catalog snapshot. Driver is the
// database/sql driver name and only decides the placeholder style.
type CatalogRepository struct {
	DB     *sql.DB
	Driver string
}

var _ catalog.Source = (*CatalogRepository)(nil)

func (r *CatalogRepository) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(CatalogSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate catalog schema: %w", err)
		}
	}
	return nil
}

// Load builds the catalog from the snapshot tables.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	providers, err := r.loadProviders(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := r.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	services, err := r.loadServices(ctx, providers)
	if err != nil {
		return nil, err
	}
	return catalog.New(providers, categories, services)
}

func (r *CatalogRepository) loadProviders(ctx context.Context) ([]models.Provider, error) {
	query := `SELECT id, name, company, avatar, bio, location, years_experience, expertise,
                     rating, completed_projects, response_time, languages, certifications, hourly_rate
              FROM providers ORDER BY position`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		var p models.Provider
		var company sql.NullString
		var hourly sql.NullFloat64
		var expertise, languages, certifications sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &company, &p.Avatar, &p.Bio, &p.Location, &p.YearsExperience, &expertise,
			&p.Rating, &p.CompletedProjects, &p.ResponseTime, &languages, &certifications, &hourly); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		if company.Valid {
			p.Company = &company.String
		}
		if hourly.Valid {
			p.HourlyRate = &hourly.Float64
		}
		if p.Expertise, err = decodeStringList(expertise); err != nil {
			return nil, fmt.Errorf("provider %s expertise: %w", p.ID, err)
		}
		if p.Languages, err = decodeStringList(languages); err != nil {
			return nil, fmt.Errorf("provider %s languages: %w", p.ID, err)
		}
		if p.Certifications, err = decodeStringList(certifications); err != nil {
			return nil, fmt.Errorf("provider %s certifications: %w", p.ID, err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("providers rows error: %w", err)
	}
	return providers, nil
}

func (r *CatalogRepository) loadCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, description, icon FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	index := map[string]int{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Subcategories = []models.Subcategory{}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories rows error: %w", err)
	}

	subRows, err := r.DB.QueryContext(ctx, `SELECT id, category_id, name, description FROM subcategories ORDER BY category_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sub models.Subcategory
		var categoryID string
		if err := subRows.Scan(&sub.ID, &categoryID, &sub.Name, &sub.Description); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		i, ok := index[categoryID]
		if !ok {
			return nil, fmt.Errorf("subcategory %s: %w: category %s", sub.ID, models.ErrCategoryNotFound, categoryID)
		}
		categories[i].Subcategories = append(categories[i].Subcategories, sub)
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("subcategories rows error: %w", err)
	}
	return categories, nil
}

func (r *CatalogRepository) loadServices(ctx context.Context, providers []models.Provider) ([]models.Service, error) {
	query := `SELECT id, title, description, short_description, price, category, subcategory, duration,
                     deliverables, skills, provider_id, images, rating, review_count, is_available, created_at, updated_at
              FROM services ORDER BY position`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var providerID, createdAt string
		var updatedAt sql.NullString
		var deliverables, skills, images sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.ShortDescription, &s.Price, &s.Category, &s.Subcategory, &s.Duration,
			&deliverables, &skills, &providerID, &images, &s.Rating, &s.ReviewCount, &s.IsAvailable, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		if s.Deliverables, err = decodeStringList(deliverables); err != nil {
			return nil, fmt.Errorf("service %s deliverables: %w", s.ID, err)
		}
		if s.Skills, err = decodeStringList(skills); err != nil {
			return nil, fmt.Errorf("service %s skills: %w", s.ID, err)
		}
		if s.Images, err = decodeStringList(images); err != nil {
			return nil, fmt.Errorf("service %s images: %w", s.ID, err)
		}
		if s.CreatedAt, err = catalog.ParseDate(createdAt); err != nil {
			return nil, fmt.Errorf("service %s created_at: %w", s.ID, err)
		}
		if updatedAt.Valid && updatedAt.String != "" {
			t, err := catalog.ParseDate(updatedAt.String)
			if err != nil {
				return nil, fmt.Errorf("service %s updated_at: %w", s.ID, err)
			}
			s.UpdatedAt = &t
		}
		if p, ok := byID[providerID]; ok {
			s.Provider = p.Clone()
		} else {
			s.Provider = models.Provider{ID: providerID}
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("services rows error: %w", err)
	}
	return services, nil
}

// Save replaces the snapshot with the contents of c in one transaction.
func (r *CatalogRepository) Save(ctx context.Context, c *catalog.Catalog) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"services", "subcategories", "categories", "providers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, p := range c.Providers() {
		expertise, _ := encodeStringList(p.Expertise)
		languages, _ := encodeStringList(p.Languages)
		certifications, _ := encodeStringList(p.Certifications)
		_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO providers (id, name, company, avatar, bio, location, years_experience, expertise,
                rating, completed_projects, response_time, languages, certifications, hourly_rate, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			p.ID, p.Name, p.Company, p.Avatar, p.Bio, p.Location, p.YearsExperience, expertise,
			p.Rating, p.CompletedProjects, p.ResponseTime, languages, certifications, p.HourlyRate, i)
		if err != nil {
			return fmt.Errorf("insert provider %s: %w", p.ID, err)
		}
	}

	for i, cat := range c.Categories() {
		_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO categories (id, name, description, icon, position) VALUES (?, ?, ?, ?, ?)`),
			cat.ID, cat.Name, cat.Description, cat.Icon, i)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", cat.ID, err)
		}
		for j, sub := range cat.Subcategories {
			_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO subcategories (id, category_id, name, description, position) VALUES (?, ?, ?, ?, ?)`),
				sub.ID, cat.ID, sub.Name, sub.Description, j)
			if err != nil {
				return fmt.Errorf("insert subcategory %s: %w", sub.ID, err)
			}
		}
	}

	for i, s := range c.Services() {
		deliverables, _ := encodeStringList(s.Deliverables)
		skills, _ := encodeStringList(s.Skills)
		images, _ := encodeStringList(s.Images)
		var updated *string
		if s.UpdatedAt != nil {
			v := s.UpdatedAt.Format(time.RFC3339)
			updated = &v
		}
		_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO services (id, title, description, short_description, price, category, subcategory, duration,
                deliverables, skills, provider_id, images, rating, review_count, is_available, created_at, updated_at, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			s.ID, s.Title, s.Description, s.ShortDescription, s.Price, s.Category, s.Subcategory, s.Duration,
			deliverables, skills, s.Provider.ID, images, s.Rating, s.ReviewCount, s.IsAvailable, s.CreatedAt.Format(time.RFC3339), updated, i)
		if err != nil {
			return fmt.Errorf("insert service %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// rebind rewrites ? placeholders to $n for PostgreSQL drivers.
func (r *CatalogRepository) rebind(query string) string {
	if r.Driver != "pgx" && r.Driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
