package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSeriesModel is one numbering counter. LastNumber is the sequence handed
// out by the most recent issue; a fresh series starts at 1.
type DocumentSeriesModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_series_key,priority:1"`
	Prefix     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_document_series_key,priority:2"`
	Year       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_document_series_key,priority:3"`
	LastNumber int64     `gorm:"not null"`
	Version    int       `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSeriesModel) TableName() string {
	return "document_series"
}
