package document

import "github.com/profitmap/docflow/internal/domain/shared"

// Document-specific errors. Each one belongs to a shared category so callers can
// match either the exact code or the category with errors.Is.
var (
	ErrCompanyNotFound      = shared.NewCategorizedError(shared.CategoryNotFound, "COMPANY_NOT_FOUND", "Company not found")
	ErrDocumentNotFound     = shared.NewCategorizedError(shared.CategoryNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	ErrRelationshipNotFound = shared.NewCategorizedError(shared.CategoryNotFound, "RELATIONSHIP_NOT_FOUND", "Document relationship not found")
	ErrSameDocument         = shared.NewCategorizedError(shared.CategoryConflict, "SAME_DOCUMENT", "A document cannot be related to itself")
	ErrDuplicateRelation    = shared.NewCategorizedError(shared.CategoryConflict, "DUPLICATE_RELATIONSHIP", "Relationship of this type already exists between the documents")
	ErrConcurrentUpdate     = shared.NewCategorizedError(shared.CategoryConflict, "CONCURRENT_MODIFICATION", "The document has been modified by another request")
	ErrDuplicateNumber      = shared.NewCategorizedError(shared.CategoryConflict, "DUPLICATE_DOCUMENT_NUMBER", "Document number already exists for this company")
	ErrNotAnOffer           = shared.NewCategorizedError(shared.CategoryInvalidInput, "NOT_AN_OFFER", "Only offers can be converted to invoices")
	ErrInvalidStatus        = shared.NewCategorizedError(shared.CategoryInvalidTransition, "INVALID_STATUS", "Status is not valid for this document type")
	ErrNotPosted            = shared.NewCategorizedError(shared.CategoryInvalidTransition, "NOT_POSTED", "Document is not in a posted status")
	ErrCanceledIsFinal      = shared.NewCategorizedError(shared.CategoryInvalidTransition, "INVALID_TRANSITION", "A canceled document cannot return to an active status")
)
