package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"go.uber.org/zap"
)

// RelationshipGraph owns the typed edges between documents. Every query is a
// single hop, so cycles in the graph need no special handling.
type RelationshipGraph struct {
	docs   document.DocumentRepository
	rels   document.RelationshipRepository
	logger *zap.Logger
}

// NewRelationshipGraph creates a RelationshipGraph
func NewRelationshipGraph(docs document.DocumentRepository, rels document.RelationshipRepository, logger *zap.Logger) *RelationshipGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipGraph{docs: docs, rels: rels, logger: logger}
}

// Link creates an edge from source to target. Both documents must exist; soft
// deleted documents can still be linked for audit purposes.
func (g *RelationshipGraph) Link(ctx context.Context, sourceID, targetID uuid.UUID, relType document.RelationshipType, notes string) (*document.Relationship, error) {
	rel, err := document.NewRelationship(sourceID, targetID, relType, notes)
	if err != nil {
		return nil, err
	}
	if err := g.requireDocuments(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	exists, err := g.rels.Exists(ctx, sourceID, targetID, relType)
	if err != nil {
		return nil, classify(err)
	}
	if exists {
		return nil, document.ErrDuplicateRelation.WithMessage("Relationship %s from %s to %s already exists", relType, sourceID, targetID)
	}
	// The unique index still guards against a concurrent insert of the same triple.
	if err := g.rels.Create(ctx, rel); err != nil {
		return nil, classify(err)
	}

	g.logger.Info("documents linked",
		zap.String("relationship_id", rel.ID.String()),
		zap.String("source_document_id", sourceID.String()),
		zap.String("target_document_id", targetID.String()),
		zap.String("type", relType.String()),
	)
	return rel, nil
}

// Unlink removes an edge. The documents it joined are left untouched.
func (g *RelationshipGraph) Unlink(ctx context.Context, relationshipID uuid.UUID) error {
	if _, err := g.rels.FindByID(ctx, relationshipID); err != nil {
		return g.relationshipErr(err, relationshipID)
	}
	if err := g.rels.Delete(ctx, relationshipID); err != nil {
		return g.relationshipErr(err, relationshipID)
	}
	g.logger.Info("documents unlinked", zap.String("relationship_id", relationshipID.String()))
	return nil
}

// Get returns a single edge
func (g *RelationshipGraph) Get(ctx context.Context, relationshipID uuid.UUID) (*document.Relationship, error) {
	rel, err := g.rels.FindByID(ctx, relationshipID)
	if err != nil {
		return nil, g.relationshipErr(err, relationshipID)
	}
	return rel, nil
}

// RelatedOffers returns the offers with an edge pointing into the invoice, in the
// order the edges were created.
func (g *RelationshipGraph) RelatedOffers(ctx context.Context, invoiceID uuid.UUID) ([]document.Document, error) {
	if err := g.requireDocuments(ctx, invoiceID); err != nil {
		return nil, err
	}
	edges, err := g.rels.FindByTarget(ctx, invoiceID, document.TypeOffer)
	if err != nil {
		return nil, classify(err)
	}
	return g.endpoints(ctx, edges, func(r document.Relationship) uuid.UUID { return r.SourceDocumentID })
}

// RelatedInvoices returns the invoices the offer has an edge pointing to, in the
// order the edges were created.
func (g *RelationshipGraph) RelatedInvoices(ctx context.Context, offerID uuid.UUID) ([]document.Document, error) {
	if err := g.requireDocuments(ctx, offerID); err != nil {
		return nil, err
	}
	edges, err := g.rels.FindBySource(ctx, offerID, document.TypeInvoice)
	if err != nil {
		return nil, classify(err)
	}
	return g.endpoints(ctx, edges, func(r document.Relationship) uuid.UUID { return r.TargetDocumentID })
}

// AllEdgesTouching returns every edge with the document at either end, of any type
func (g *RelationshipGraph) AllEdgesTouching(ctx context.Context, documentID uuid.UUID) ([]document.Relationship, error) {
	if err := g.requireDocuments(ctx, documentID); err != nil {
		return nil, err
	}
	edges, err := g.rels.FindTouching(ctx, documentID)
	if err != nil {
		return nil, classify(err)
	}
	return edges, nil
}

// AreRelated reports whether an edge of any type joins a and b in either direction
func (g *RelationshipGraph) AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ok, err := g.rels.ExistsBetween(ctx, a, b)
	if err != nil {
		return false, classify(err)
	}
	return ok, nil
}

// EdgesByCompany returns all edges leaving documents of the company
func (g *RelationshipGraph) EdgesByCompany(ctx context.Context, companyID uuid.UUID) ([]document.Relationship, error) {
	edges, err := g.rels.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, classify(err)
	}
	return edges, nil
}

func (g *RelationshipGraph) requireDocuments(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		if _, err := g.docs.FindByID(ctx, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return document.ErrDocumentNotFound.WithMessage("Document %s not found", id)
			}
			return classify(err)
		}
	}
	return nil
}

// endpoints loads the far end of each edge, keeping edge order and listing a
// document once even if several edge types reach it.
func (g *RelationshipGraph) endpoints(ctx context.Context, edges []document.Relationship, end func(document.Relationship) uuid.UUID) ([]document.Document, error) {
	if len(edges) == 0 {
		return []document.Document{}, nil
	}
	ids := make([]uuid.UUID, 0, len(edges))
	seen := make(map[uuid.UUID]bool, len(edges))
	for _, e := range edges {
		id := end(e)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	docs, err := g.docs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, classify(err)
	}
	byID := make(map[uuid.UUID]document.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	result := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

func (g *RelationshipGraph) relationshipErr(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return document.ErrRelationshipNotFound.WithMessage("Relationship %s not found", id)
	}
	return classify(err)
}
