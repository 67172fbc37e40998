package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gartstein/directory/internal/directory/catalog"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// SetupTestDB opens a SQLite database in a per-test directory.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "directory.db")))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// TestSeedCompanies verifies the catalog is written once.
func TestSeedCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	n, err := repo.SeedCompanies(ctx, catalog.Sample())
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = repo.SeedCompanies(ctx, catalog.Sample())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a seeded table must not be seeded again")

	count, err := repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

// TestSeedCompaniesEmpty is a no-op.
func TestSeedCompaniesEmpty(t *testing.T) {
	repo := SetupTestDB(t)

	n, err := repo.SeedCompanies(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// TestLoadCatalog round-trips the sample catalog.
func TestLoadCatalog(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, err := repo.SeedCompanies(ctx, catalog.Sample())
	require.NoError(t, err)

	companies, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Sample(), companies)
}

// TestLoadCatalogEmpty returns an empty catalog, not an error.
func TestLoadCatalogEmpty(t *testing.T) {
	repo := SetupTestDB(t)

	companies, err := repo.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, companies)
}

// TestLoadCatalogClosed maps storage failures to ErrCatalogUnavailable.
func TestLoadCatalogClosed(t *testing.T) {
	repo := SetupTestDB(t)
	require.NoError(t, repo.Close())

	_, err := repo.LoadCatalog(context.Background())
	assert.ErrorIs(t, err, e.ErrCatalogUnavailable)
}

// TestGetCompany ensures retrieval works correctly.
func TestGetCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, err := repo.SeedCompanies(ctx, catalog.Sample())
	require.NoError(t, err)

	company, err := repo.GetCompany(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "FinanceFlow Systems", company.Name)
	assert.Equal(t, "$120M", company.Revenue)
}

// TestGetCompanyNotFound verifies error handling when the company does not exist.
func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), 404)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// TestWithTransactionRollback ensures a failed transaction leaves no rows.
func TestWithTransactionRollback(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		if _, err := tx.SeedCompanies(ctx, []models.Company{{ID: 1, Name: "Rolled Back"}}); err != nil {
			return err
		}
		return e.ErrInvalidInput
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	count, err := repo.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConfigDialector(t *testing.T) {
	d, err := (&Config{Driver: "postgres", Host: "localhost", Port: 5432}).Dialector()
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = (&Config{Driver: "sqlite", Path: ":memory:"}).Dialector()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = (&Config{Driver: "mysql"}).Dialector()
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
