package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
)

// ClientType tells which identity fields of a snapshot are meaningful
type ClientType string

const (
	ClientTypeCompany ClientType = "COMPANY"
	ClientTypePerson  ClientType = "PERSON"
)

// IsValid checks if the client type is valid
func (t ClientType) IsValid() bool {
	return t == ClientTypeCompany || t == ClientTypePerson
}

// ClientDetails are the client fields supplied when a document is created
type ClientDetails struct {
	Name    string
	Contact string
	Email   string
	Type    ClientType
	OIB     string
	Address string
	Surname string
	// OriginalClientID is set only when the details were copied from a live client record.
	OriginalClientID *uuid.UUID
}

// ClientSnapshot is a frozen copy of client identity taken when a document is
// created. It is never updated afterwards.
type ClientSnapshot struct {
	ID               uuid.UUID
	Name             string
	Contact          string
	Email            string
	Type             ClientType
	OIB              string
	Address          string
	Surname          string
	OriginalClientID *uuid.UUID
	SnapshotDate     time.Time
}

// NewClientSnapshot validates the details and freezes them
func NewClientSnapshot(d ClientDetails) (*ClientSnapshot, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if d.Type == "" {
		d.Type = ClientTypeCompany
	}
	if !d.Type.IsValid() {
		return nil, shared.NewCategorizedError(shared.CategoryInvalidInput, "INVALID_CLIENT_TYPE", "Client type must be COMPANY or PERSON")
	}

	s := &ClientSnapshot{
		ID:               uuid.New(),
		Name:             d.Name,
		Contact:          d.Contact,
		Email:            d.Email,
		Type:             d.Type,
		OriginalClientID: d.OriginalClientID,
		SnapshotDate:     time.Now(),
	}
	switch d.Type {
	case ClientTypeCompany:
		s.OIB = d.OIB
		s.Address = d.Address
	case ClientTypePerson:
		s.Surname = d.Surname
	}
	return s, nil
}
