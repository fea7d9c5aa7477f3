package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRelationshipGraph_Link(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("self relationship is a conflict and stores nothing", func(t *testing.T) {
		docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
		g := NewRelationshipGraph(docs, rels, nil)

		_, err := g.Link(ctx, a, a, document.RelationReplacement, "")
		assert.True(t, errors.Is(err, document.ErrSameDocument))
		assert.True(t, errors.Is(err, shared.ErrConflict))
		docs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		rels.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("second identical link is a conflict", func(t *testing.T) {
		docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
		g := NewRelationshipGraph(docs, rels, nil)
		docs.On("FindByID", ctx, mock.Anything).Return(&document.Document{}, nil)
		rels.On("Exists", ctx, a, b, document.RelationOfferToInvoice).Return(false, nil).Once()
		rels.On("Create", ctx, mock.Anything).Return(nil).Once()
		rels.On("Exists", ctx, a, b, document.RelationOfferToInvoice).Return(true, nil).Once()

		rel, err := g.Link(ctx, a, b, document.RelationOfferToInvoice, "first")
		require.NoError(t, err)
		assert.Equal(t, a, rel.SourceDocumentID)

		_, err = g.Link(ctx, a, b, document.RelationOfferToInvoice, "second")
		assert.True(t, errors.Is(err, document.ErrDuplicateRelation))
		assert.True(t, errors.Is(err, shared.ErrConflict))
		rels.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("concurrent duplicate caught by storage", func(t *testing.T) {
		docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
		g := NewRelationshipGraph(docs, rels, nil)
		docs.On("FindByID", ctx, mock.Anything).Return(&document.Document{}, nil)
		rels.On("Exists", ctx, a, b, document.RelationAmendment).Return(false, nil)
		rels.On("Create", ctx, mock.Anything).Return(document.ErrDuplicateRelation)

		_, err := g.Link(ctx, a, b, document.RelationAmendment, "")
		assert.True(t, errors.Is(err, document.ErrDuplicateRelation))
	})

	t.Run("missing endpoint", func(t *testing.T) {
		docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
		g := NewRelationshipGraph(docs, rels, nil)
		docs.On("FindByID", ctx, a).Return(&document.Document{}, nil)
		docs.On("FindByID", ctx, b).Return(nil, shared.ErrNotFound)

		_, err := g.Link(ctx, a, b, document.RelationCancellation, "")
		assert.True(t, errors.Is(err, document.ErrDocumentNotFound))
		rels.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRelationshipGraph_Unlink(t *testing.T) {
	ctx := context.Background()
	docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
	g := NewRelationshipGraph(docs, rels, nil)

	existing := &document.Relationship{ID: uuid.New(), SourceDocumentID: uuid.New(), TargetDocumentID: uuid.New(), Type: document.RelationReplacement}
	missing := uuid.New()
	rels.On("FindByID", ctx, existing.ID).Return(existing, nil)
	rels.On("Delete", ctx, existing.ID).Return(nil)
	rels.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	got, err := g.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	_, err = g.Get(ctx, missing)
	assert.True(t, errors.Is(err, document.ErrRelationshipNotFound))

	require.NoError(t, g.Unlink(ctx, existing.ID))
	err = g.Unlink(ctx, missing)
	assert.True(t, errors.Is(err, document.ErrRelationshipNotFound))
	docs.AssertNotCalled(t, "MarkDeleted", mock.Anything, mock.Anything)
}

func TestRelationshipGraph_RelatedInvoices(t *testing.T) {
	ctx := context.Background()
	docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
	g := NewRelationshipGraph(docs, rels, nil)

	offer := uuid.New()
	inv1, inv2 := uuid.New(), uuid.New()
	now := time.Now()
	edges := []document.Relationship{
		{ID: uuid.New(), SourceDocumentID: offer, TargetDocumentID: inv2, Type: document.RelationOfferToInvoice, CreatedAt: now},
		{ID: uuid.New(), SourceDocumentID: offer, TargetDocumentID: inv1, Type: document.RelationPartialOfferToInvoice, CreatedAt: now.Add(time.Second)},
		{ID: uuid.New(), SourceDocumentID: offer, TargetDocumentID: inv2, Type: document.RelationInvoiceReference, CreatedAt: now.Add(2 * time.Second)},
	}
	docs.On("FindByID", ctx, offer).Return(&document.Document{}, nil)
	rels.On("FindBySource", ctx, offer, document.TypeInvoice).Return(edges, nil)
	// storage returns documents in arbitrary order
	docs.On("FindByIDs", ctx, []uuid.UUID{inv2, inv1}).Return([]document.Document{
		{CompanyAggregateRoot: withID(inv1), Number: "INV-2025-0001"},
		{CompanyAggregateRoot: withID(inv2), Number: "INV-2025-0002"},
	}, nil)

	got, err := g.RelatedInvoices(ctx, offer)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "INV-2025-0002", got[0].Number, "edge creation order is kept")
	assert.Equal(t, "INV-2025-0001", got[1].Number)
}

func TestRelationshipGraph_RelatedOffers_Empty(t *testing.T) {
	ctx := context.Background()
	docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
	g := NewRelationshipGraph(docs, rels, nil)
	inv := uuid.New()
	docs.On("FindByID", ctx, inv).Return(&document.Document{}, nil)
	rels.On("FindByTarget", ctx, inv, document.TypeOffer).Return([]document.Relationship{}, nil)

	got, err := g.RelatedOffers(ctx, inv)
	require.NoError(t, err)
	assert.Empty(t, got)
	docs.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestRelationshipGraph_AreRelated(t *testing.T) {
	ctx := context.Background()
	docs, rels := new(MockDocumentRepository), new(MockRelationshipRepository)
	g := NewRelationshipGraph(docs, rels, nil)
	a, b := uuid.New(), uuid.New()
	rels.On("ExistsBetween", ctx, a, b).Return(true, nil)
	rels.On("ExistsBetween", ctx, b, a).Return(false, errors.New("timeout"))

	ok, err := g.AreRelated(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = g.AreRelated(ctx, b, a)
	assert.True(t, errors.Is(err, shared.ErrStorageUnavailable))
}

func withID(id uuid.UUID) shared.CompanyAggregateRoot {
	root := shared.NewCompanyAggregateRoot(testCompany.ID)
	root.ID = id
	return root
}
