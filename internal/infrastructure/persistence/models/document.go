package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate root.
// DeletedAt is a plain column rather than gorm.DeletedAt because soft-deleted
// documents must stay loadable by ID.
type DocumentModel struct {
	AggregateModel
	CompanyID        uuid.UUID            `gorm:"type:uuid;not null;index:idx_document_company_active,priority:1;uniqueIndex:idx_document_company_number,priority:1"`
	DocumentType     document.Type        `gorm:"type:varchar(20);not null;index"`
	Status           document.Status      `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	DocumentNumber   string               `gorm:"type:varchar(60);not null;uniqueIndex:idx_document_company_number,priority:2"`
	DocumentDate     time.Time            `gorm:"type:date;not null;index"`
	ExpirationDate   *time.Time           `gorm:"type:date"`
	TotalPrice       decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	DocumentClientID uuid.UUID            `gorm:"type:uuid;not null"`
	Client           *DocumentClientModel `gorm:"foreignKey:DocumentClientID;references:ID"`
	Items            []DocumentItemModel  `gorm:"foreignKey:DocumentID;references:ID"`
	DeletedAt        *time.Time           `gorm:"index:idx_document_company_active,priority:2"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	doc := &document.Document{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		Type:                 m.DocumentType,
		Status:               m.Status,
		Number:               m.DocumentNumber,
		DocumentDate:         m.DocumentDate,
		ExpirationDate:       m.ExpirationDate,
		TotalPrice:           m.TotalPrice,
		ClientSnapshotID:     m.DocumentClientID,
		DeletedAt:            m.DeletedAt,
		Items:                make([]document.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		doc.Items[i] = *item.ToDomain()
	}
	if m.Client != nil {
		doc.Client = m.Client.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain Document. The client
// snapshot is stored separately and only referenced here.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.CompanyID = m.FromDomainCompanyAggregateRoot(d.CompanyAggregateRoot)
	m.DocumentType = d.Type
	m.Status = d.Status
	m.DocumentNumber = d.Number
	m.DocumentDate = d.DocumentDate
	m.ExpirationDate = d.ExpirationDate
	m.TotalPrice = d.TotalPrice
	m.DocumentClientID = d.ClientSnapshotID
	m.DeletedAt = d.DeletedAt
	m.Items = make([]DocumentItemModel, len(d.Items))
	for i := range d.Items {
		m.Items[i] = *DocumentItemModelFromDomain(&d.Items[i])
	}
}

// DocumentModelFromDomain creates a new persistence model from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// DocumentItemModel is the persistence model for a document line item
type DocumentItemModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position           int             `gorm:"not null;default:0"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Comment            string          `gorm:"type:text"`
	Quantity           int             `gorm:"not null"`
	Price              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentItemModel) TableName() string {
	return "document_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *DocumentItemModel) ToDomain() *document.Item {
	return &document.Item{
		ID:                 m.ID,
		DocumentID:         m.DocumentID,
		Position:           m.Position,
		Name:               m.Name,
		Comment:            m.Comment,
		Quantity:           m.Quantity,
		Price:              m.Price,
		DiscountPercentage: m.DiscountPercentage,
	}
}

// DocumentItemModelFromDomain creates a persistence model from a domain Item
func DocumentItemModelFromDomain(i *document.Item) *DocumentItemModel {
	return &DocumentItemModel{
		ID:                 i.ID,
		DocumentID:         i.DocumentID,
		Position:           i.Position,
		Name:               i.Name,
		Comment:            i.Comment,
		Quantity:           i.Quantity,
		Price:              i.Price,
		DiscountPercentage: i.DiscountPercentage,
	}
}

// DocumentClientModel is the persistence model of a client snapshot
type DocumentClientModel struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key"`
	Name             string              `gorm:"type:varchar(200);not null"`
	Contact          string              `gorm:"type:varchar(200)"`
	Email            string              `gorm:"type:varchar(200)"`
	ClientType       document.ClientType `gorm:"type:varchar(20);not null"`
	OIB              string              `gorm:"column:oib;type:varchar(20)"`
	Address          string              `gorm:"type:varchar(500)"`
	Surname          string              `gorm:"type:varchar(200)"`
	OriginalClientID *uuid.UUID          `gorm:"type:uuid;index"`
	SnapshotDate     time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentClientModel) TableName() string {
	return "document_clients"
}

// ToDomain converts the persistence model to a domain ClientSnapshot
func (m *DocumentClientModel) ToDomain() *document.ClientSnapshot {
	return &document.ClientSnapshot{
		ID:               m.ID,
		Name:             m.Name,
		Contact:          m.Contact,
		Email:            m.Email,
		Type:             m.ClientType,
		OIB:              m.OIB,
		Address:          m.Address,
		Surname:          m.Surname,
		OriginalClientID: m.OriginalClientID,
		SnapshotDate:     m.SnapshotDate,
	}
}

// DocumentClientModelFromDomain creates a persistence model from a domain ClientSnapshot
func DocumentClientModelFromDomain(s *document.ClientSnapshot) *DocumentClientModel {
	return &DocumentClientModel{
		ID:               s.ID,
		Name:             s.Name,
		Contact:          s.Contact,
		Email:            s.Email,
		ClientType:       s.Type,
		OIB:              s.OIB,
		Address:          s.Address,
		Surname:          s.Surname,
		OriginalClientID: s.OriginalClientID,
		SnapshotDate:     s.SnapshotDate,
	}
}
