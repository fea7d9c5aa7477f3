package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// SeriesKey identifies one numbering series
type SeriesKey struct {
	CompanyID uuid.UUID
	Prefix    string
	Year      string
}

// NewSeriesKey validates and builds a series key. The year is embedded between
// separators in the number, so it must not contain one itself.
func NewSeriesKey(companyID uuid.UUID, prefix, year string) (SeriesKey, error) {
	if companyID == uuid.Nil {
		return SeriesKey{}, shared.ErrInvalidInput.WithMessage("Company ID cannot be empty")
	}
	if strings.TrimSpace(prefix) == "" {
		return SeriesKey{}, shared.ErrInvalidInput.WithMessage("Series prefix cannot be empty")
	}
	if strings.TrimSpace(year) == "" || strings.Contains(year, numberSeparator) {
		return SeriesKey{}, shared.ErrInvalidInput.WithMessage("Series year %q is invalid", year)
	}
	return SeriesKey{CompanyID: companyID, Prefix: prefix, Year: year}, nil
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.CompanyID, k.Prefix, k.Year)
}

const numberSeparator = "-"

// FormatNumber renders {prefix}-{year}-{sequence}, the sequence zero-padded to at
// least four digits. Larger sequences widen the field.
func FormatNumber(prefix, year string, sequence int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, year, sequence)
}

// ParseNumber splits a document number back into its parts. The prefix may itself
// contain separators, so parsing works from the right.
func ParseNumber(number string) (prefix, year string, sequence int64, err error) {
	seqAt := strings.LastIndex(number, numberSeparator)
	if seqAt <= 0 {
		return "", "", 0, shared.ErrInvalidInput.WithMessage("Malformed document number %q", number)
	}
	yearAt := strings.LastIndex(number[:seqAt], numberSeparator)
	if yearAt <= 0 {
		return "", "", 0, shared.ErrInvalidInput.WithMessage("Malformed document number %q", number)
	}

	sequence, err = strconv.ParseInt(number[seqAt+1:], 10, 64)
	if err != nil || sequence < 1 {
		return "", "", 0, shared.ErrInvalidInput.WithMessage("Malformed sequence in document number %q", number)
	}
	return number[:yearAt], number[yearAt+1 : seqAt], sequence, nil
}
