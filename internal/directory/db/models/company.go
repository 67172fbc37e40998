// Package models contains the persistence models of the directory,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	domain "github.com/gartstein/directory/internal/directory/models"
)

// Company is the stored form of a directory entry. Catalog rows are written
// once when the database is seeded and never updated afterwards.
type Company struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Name        string `gorm:"size:255;not null"`
	Industry    string `gorm:"size:100;index"`
	Location    string `gorm:"size:255"`
	Employees   int    `gorm:"check:employees >= 0"`
	Founded     int
	Revenue     string `gorm:"size:32"`
	Description string `gorm:"size:3000"`
	CreatedAt   time.Time
}

// TableName pins the table name.
func (Company) TableName() string {
	return "companies"
}

// FromDomain converts a domain company into its stored form.
func FromDomain(c domain.Company) Company {
	return Company{
		ID:          c.ID,
		Name:        c.Name,
		Industry:    c.Industry,
		Location:    c.Location,
		Employees:   c.Employees,
		Founded:     c.Founded,
		Revenue:     c.Revenue,
		Description: c.Description,
	}
}

// ToDomain converts a stored row into the domain model.
func (c Company) ToDomain() domain.Company {
	return domain.Company{
		ID:          c.ID,
		Name:        c.Name,
		Industry:    c.Industry,
		Location:    c.Location,
		Employees:   c.Employees,
		Founded:     c.Founded,
		Revenue:     c.Revenue,
		Description: c.Description,
	}
}
