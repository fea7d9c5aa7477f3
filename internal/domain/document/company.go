package document

import (
	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// Company is the read-only view of a tenant company the document core needs
type Company struct {
	ID            uuid.UUID
	Name          string
	OfferPrefix   string
	OfferYear     string
	InvoicePrefix string
	InvoiceYear   string
}

// SeriesFor returns the series a new document of type t is numbered from
func (c Company) SeriesFor(t Type) (SeriesKey, error) {
	switch t {
	case TypeOffer:
		return NewSeriesKey(c.ID, c.OfferPrefix, c.OfferYear)
	case TypeInvoice:
		return NewSeriesKey(c.ID, c.InvoicePrefix, c.InvoiceYear)
	}
	return SeriesKey{}, shared.ErrInvalidInput.WithMessage("Unknown document type %q", t)
}
