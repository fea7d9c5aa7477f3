package document

import (
	"strings"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemInput carries the caller-supplied fields of a line item
type ItemInput struct {
	Name               string
	Comment            string
	Quantity           int
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Item is a line of a document. It has no life outside its document.
type Item struct {
	ID                 uuid.UUID
	DocumentID         uuid.UUID
	Position           int
	Name               string
	Comment            string
	Quantity           int
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// NewItem validates the input and creates a line item at the given position
func NewItem(documentID uuid.UUID, position int, in ItemInput) (*Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.Price.IsNegative() {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(hundred) {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}

	return &Item{
		ID:                 uuid.New(),
		DocumentID:         documentID,
		Position:           position,
		Name:               in.Name,
		Comment:            in.Comment,
		Quantity:           in.Quantity,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
	}, nil
}

// LineTotal returns price * quantity * (1 - discount/100), unrounded
func (i Item) LineTotal() decimal.Decimal {
	gross := i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
	if i.DiscountPercentage.IsZero() {
		return gross
	}
	factor := hundred.Sub(i.DiscountPercentage).Div(hundred)
	return gross.Mul(factor)
}

// copyTo duplicates the item for another document with a fresh identity
func (i Item) copyTo(documentID uuid.UUID) Item {
	i.ID = uuid.New()
	i.DocumentID = documentID
	return i
}
