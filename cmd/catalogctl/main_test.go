package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engmarket/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateEmbedded(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 6 services, 4 providers, 4 categories")
}

func TestValidateReportsIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - id: p1
    name: Ann Lee
    location: Oslo, Norway
categories:
  - id: civil
    name: Civil Engineering
services:
  - id: s1
    title: Wind tunnel study
    price: 900
    category: aerospace
    provider_id: p1
    created_at: "2024-03-01"
`), 0o600))

	out, err := run(t, "validate", "--catalog", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCatalogIntegrity)
	assert.Contains(t, out, "unknown_category")
	assert.Contains(t, out, "aerospace")
}

func TestListJSON(t *testing.T) {
	out, err := run(t, "list", "--category", "electrical", "--sort", "price-low", "--json")
	require.NoError(t, err)

	var res models.ListingResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	ids := make([]string, 0, len(res.Services))
	for _, s := range res.Services {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"3", "5", "4"}, ids)
	assert.Equal(t, 3, res.Total)
}

func TestListTable(t *testing.T) {
	out, err := run(t, "list", "--min-price", "2000", "--max-price", "4000", "--sort", "price-low")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "3 of 3 services")
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "electrical")
	assert.Contains(t, out, "Civil Engineering")
}

func TestExportSQLRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "catalog.db")

	out, err := run(t, "export-sql", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 6 services")

	out, err = run(t, "validate", "--db-driver", "sqlite", "--db-url", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 6 services")

	_, err = run(t, "export-sql", "--driver", "oracle", "--dsn", dsn)
	assert.Error(t, err)
}
