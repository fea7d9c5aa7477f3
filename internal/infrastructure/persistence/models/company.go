package models

import (
	"github.com/profitmap/docflow/internal/domain/document"
)

// CompanyModel is the read model of a tenant company. The table is owned by the
// company management service; this module only reads it.
type CompanyModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	OfferPrefix   string `gorm:"type:varchar(20);not null"`
	OfferYear     string `gorm:"type:varchar(10);not null"`
	InvoicePrefix string `gorm:"type:varchar(20);not null"`
	InvoiceYear   string `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *document.Company {
	return &document.Company{
		ID:            m.ID,
		Name:          m.Name,
		OfferPrefix:   m.OfferPrefix,
		OfferYear:     m.OfferYear,
		InvoicePrefix: m.InvoicePrefix,
		InvoiceYear:   m.InvoiceYear,
	}
}

// CompanyModelFromDomain creates a persistence model from a domain Company
func CompanyModelFromDomain(c *document.Company) *CompanyModel {
	m := &CompanyModel{
		Name:          c.Name,
		OfferPrefix:   c.OfferPrefix,
		OfferYear:     c.OfferYear,
		InvoicePrefix: c.InvoicePrefix,
		InvoiceYear:   c.InvoiceYear,
	}
	m.ID = c.ID
	return m
}
