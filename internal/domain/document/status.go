package document

import "strings"

// Type distinguishes offers from invoices. Each type carries its own status table.
type Type string

const (
	TypeOffer   Type = "OFFER"
	TypeInvoice Type = "INVOICE"
)

// ParseType parses a document type, accepting any letter case
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// IsValid checks if the type is a valid document type
func (t Type) IsValid() bool {
	return t == TypeOffer || t == TypeInvoice
}

func (t Type) String() string {
	return string(t)
}

// Status is a lifecycle status. Which statuses are legal depends on the Type.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusOutstanding Status = "OUTSTANDING"
	StatusAccepted    Status = "ACCEPTED"
	StatusPending     Status = "PENDING"
	StatusReceived    Status = "RECEIVED"
	StatusRefunded    Status = "REFUNDED"
	StatusCanceled    Status = "CANCELED"
)

// ParseStatus parses a status name, accepting any letter case
func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

func (s Status) String() string {
	return string(s)
}

type statusRule struct {
	terminal bool
	posted   bool
}

// statusTables is the per-type transition table the lifecycle dispatches on.
var statusTables = map[Type]map[Status]statusRule{
	TypeOffer: {
		StatusDraft:       {},
		StatusOutstanding: {},
		StatusAccepted:    {terminal: true},
		StatusCanceled:    {terminal: true},
	},
	TypeInvoice: {
		StatusDraft:    {},
		StatusPending:  {posted: true},
		StatusReceived: {terminal: true},
		StatusRefunded: {terminal: true},
		StatusCanceled: {terminal: true},
	},
}

// Allows reports whether the status exists in the type's status table
func (t Type) Allows(s Status) bool {
	_, ok := statusTables[t][s]
	return ok
}

// IsTerminal reports whether s ends the lifecycle for this type
func (t Type) IsTerminal(s Status) bool {
	return statusTables[t][s].terminal
}

// IsPosted reports whether entering s must notify external collaborators
func (t Type) IsPosted(s Status) bool {
	return statusTables[t][s].posted
}

// Statuses returns the statuses legal for the type in lifecycle order
func (t Type) Statuses() []Status {
	switch t {
	case TypeOffer:
		return []Status{StatusDraft, StatusOutstanding, StatusAccepted, StatusCanceled}
	case TypeInvoice:
		return []Status{StatusDraft, StatusPending, StatusReceived, StatusRefunded, StatusCanceled}
	}
	return nil
}

// CanTransition checks a status change for the type. Only leaving CANCELED for a
// non-terminal status is forbidden; every other change between legal statuses is
// accepted.
func (t Type) CanTransition(from, to Status) error {
	if !t.Allows(to) {
		return ErrInvalidStatus.WithMessage("Status %s is not valid for %s documents", to, t)
	}
	if from == StatusCanceled && !t.IsTerminal(to) {
		return ErrCanceledIsFinal.WithMessage("Cannot change status from %s to %s", from, to)
	}
	return nil
}
