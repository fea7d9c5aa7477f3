package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateType is the aggregate name used in events
const AggregateType = "Document"

// Draft holds what a caller supplies to create a document. Status defaults to DRAFT.
type Draft struct {
	Type           Type
	Status         Status
	DocumentDate   time.Time
	ExpirationDate *time.Time
	Items          []ItemInput
}

// Document is an offer or an invoice. Its number is assigned once at creation and
// never changes; deleting a document only stamps DeletedAt.
type Document struct {
	shared.CompanyAggregateRoot
	Type             Type
	Status           Status
	Number           string
	DocumentDate     time.Time
	ExpirationDate   *time.Time
	Items            []Item
	TotalPrice       decimal.Decimal
	ClientSnapshotID uuid.UUID
	Client           *ClientSnapshot
	DeletedAt        *time.Time
}

// Validate checks the draft without touching any state, so callers can reject bad
// input before a number is issued.
func (d Draft) Validate() error {
	if !d.Type.IsValid() {
		return shared.ErrInvalidInput.WithMessage("Unknown document type %q", d.Type)
	}
	if d.Status != "" && !d.Type.Allows(d.Status) {
		return ErrInvalidStatus.WithMessage("Status %s is not valid for %s documents", d.Status, d.Type)
	}
	if d.ExpirationDate != nil && !d.DocumentDate.IsZero() && d.ExpirationDate.Before(truncateDay(d.DocumentDate)) {
		return shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_EXPIRATION_DATE", "Expiration date cannot be before the document date")
	}
	for pos, in := range d.Items {
		if _, err := NewItem(uuid.Nil, pos, in); err != nil {
			return err
		}
	}
	return nil
}

// NewDocument creates a document in its initial lifecycle status with a number
// already issued from the company's series.
func NewDocument(companyID uuid.UUID, number string, draft Draft, client *ClientSnapshot) (*Document, error) {
	if draft.DocumentDate.IsZero() {
		draft.DocumentDate = time.Now()
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Document number cannot be empty")
	}
	if client == nil {
		return nil, shared.ErrInvalidInput.WithMessage("Client snapshot is required")
	}
	status := draft.Status
	if status == "" {
		status = StatusDraft
	}

	doc := &Document{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Type:                 draft.Type,
		Status:               status,
		Number:               number,
		DocumentDate:         draft.DocumentDate,
		ExpirationDate:       draft.ExpirationDate,
		Items:                make([]Item, 0, len(draft.Items)),
		TotalPrice:           decimal.Zero,
		ClientSnapshotID:     client.ID,
		Client:               client,
	}
	for pos, in := range draft.Items {
		item, err := NewItem(doc.ID, pos, in)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, *item)
	}
	doc.recalculateTotal()

	doc.AddDomainEvent(NewCreatedEvent(doc))
	if doc.Type.IsPosted(doc.Status) {
		doc.AddDomainEvent(NewPostedEvent(doc, ""))
	}
	return doc, nil
}

// NewInvoiceFromOffer builds the invoice an offer converts into. Items, total, the
// client snapshot reference and the dates are copied from the offer.
// The invoice starts in DRAFT, not PENDING, so converting never sends the posted
// notification; the caller posts the invoice with SetStatus.
func NewInvoiceFromOffer(offer *Document, number string) (*Document, error) {
	if offer.Type != TypeOffer {
		return nil, ErrNotAnOffer.WithMessage("Document %s is %s, only offers can be converted", offer.Number, offer.Type)
	}
	if number == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Document number cannot be empty")
	}

	inv := &Document{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(offer.CompanyID),
		Type:                 TypeInvoice,
		Status:               StatusDraft,
		Number:               number,
		DocumentDate:         offer.DocumentDate,
		ExpirationDate:       offer.ExpirationDate,
		Items:                make([]Item, 0, len(offer.Items)),
		TotalPrice:           offer.TotalPrice,
		ClientSnapshotID:     offer.ClientSnapshotID,
		Client:               offer.Client,
	}
	for _, item := range offer.Items {
		inv.Items = append(inv.Items, item.copyTo(inv.ID))
	}

	inv.AddDomainEvent(NewCreatedEvent(inv))
	return inv, nil
}

// SetStatus moves the document to a new status following its type's table.
// It reports whether the document entered a posted status.
func (d *Document) SetStatus(status Status) (posted bool, err error) {
	if err := d.Type.CanTransition(d.Status, status); err != nil {
		return false, err
	}
	if d.Status == status {
		return false, nil
	}

	old := d.Status
	d.Status = status
	d.Touch()
	d.AddDomainEvent(NewStatusChangedEvent(d, old))

	if d.Type.IsPosted(status) {
		d.AddDomainEvent(NewPostedEvent(d, old))
		return true, nil
	}
	return false, nil
}

// SoftDelete stamps the deletion time. Deleting twice keeps the first timestamp.
func (d *Document) SoftDelete() {
	if d.DeletedAt != nil {
		return
	}
	now := time.Now()
	d.DeletedAt = &now
	d.UpdatedAt = now
}

// IsDeleted reports whether the document was soft-deleted
func (d *Document) IsDeleted() bool {
	return d.DeletedAt != nil
}

func (d *Document) recalculateTotal() {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.LineTotal())
	}
	d.TotalPrice = total.Round(2)
}

func truncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
