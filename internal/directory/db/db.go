// Package db stores the company catalog with GORM and serves it as a
// catalog source.
package db

import (
	"context"
	"errors"
	"fmt"

	dbmodels "github.com/gartstein/directory/internal/directory/db/models"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Dialector picks the GORM driver for cfg.
func (cfg *Config) Dialector() (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	return Open(dialector)
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// SeedCompanies inserts companies when the table is empty. It reports how
// many rows were written.
func (r *Repository) SeedCompanies(ctx context.Context, companies []models.Company) (int, error) {
	seeded := 0
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		count, err := tx.CountCompanies(ctx)
		if err != nil {
			return err
		}
		if count > 0 || len(companies) == 0 {
			return nil
		}
		rows := make([]dbmodels.Company, 0, len(companies))
		for _, c := range companies {
			rows = append(rows, dbmodels.FromDomain(c))
		}
		if err := tx.db.WithContext(ctx).Create(&rows).Error; err != nil {
			return err
		}
		seeded = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return seeded, nil
}

// ListCompanies returns every stored company ordered by ID.
func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var rows []dbmodels.Company
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]models.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, row.ToDomain())
	}
	return companies, nil
}

// LoadCatalog implements catalog.Source. Any storage failure is reported as
// ErrCatalogUnavailable.
func (r *Repository) LoadCatalog(ctx context.Context) ([]models.Company, error) {
	companies, err := r.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, err)
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var row dbmodels.Company
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	company := row.ToDomain()
	return &company, nil
}

func (r *Repository) CountCompanies(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).Count(&count)
	return count, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
