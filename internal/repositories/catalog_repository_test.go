package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"engmarket/internal/catalog"
	"engmarket/internal/models"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCatalogRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &CatalogRepository{DB: openSQLite(t), Driver: "sqlite"}
	require.NoError(t, repo.Migrate(ctx))

	seed, err := catalog.EmbeddedSource{}.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, seed))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(seed.Services(), loaded.Services(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("services mismatch (-seed +sql):\n%s", diff)
	}
	if diff := cmp.Diff(seed.Categories(), loaded.Categories(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("categories mismatch (-seed +sql):\n%s", diff)
	}
	if diff := cmp.Diff(seed.Providers(), loaded.Providers(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("providers mismatch (-seed +sql):\n%s", diff)
	}
	assert.Empty(t, loaded.Validate())

	// saving twice replaces the snapshot instead of duplicating rows
	require.NoError(t, repo.Save(ctx, seed))
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Services(), len(seed.Services()))
}

func TestCatalogRepositoryOrphanSubcategory(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	repo := &CatalogRepository{DB: db, Driver: "sqlite"}
	require.NoError(t, repo.Migrate(ctx))

	_, err := db.ExecContext(ctx, `INSERT INTO subcategories (id, category_id, name, description, position) VALUES ('x', 'missing', 'X', '', 0)`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrCategoryNotFound))
}

func TestCatalogRepositoryBadListColumn(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	repo := &CatalogRepository{DB: db, Driver: "sqlite"}
	require.NoError(t, repo.Migrate(ctx))

	_, err := db.ExecContext(ctx, `INSERT INTO providers (id, name, avatar, bio, location, years_experience, expertise,
            rating, completed_projects, response_time, position)
        VALUES ('1', 'P', '', '', 'Denver, CO', 3, 'not json', 4.5, 1, '1 hour', 0)`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expertise")
}

func TestRebind(t *testing.T) {
	pg := &CatalogRepository{Driver: "pgx"}
	assert.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))

	my := &CatalogRepository{Driver: "mysql"}
	assert.Equal(t, "VALUES (?, ?)", my.rebind("VALUES (?, ?)"))
}
