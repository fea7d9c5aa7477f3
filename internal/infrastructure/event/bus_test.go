package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testHandler records the events it receives
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func newPostedEvent(t *testing.T) *document.PostedEvent {
	t.Helper()
	client, err := document.NewClientSnapshot(document.ClientDetails{Name: "Acme", Email: "ap@acme.test"})
	require.NoError(t, err)
	doc, err := document.NewDocument(uuid.New(), "INV-2025-0001", document.Draft{
		Type:         document.TypeInvoice,
		Status:       document.StatusPending,
		DocumentDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Items:        []document.ItemInput{{Name: "Audit", Quantity: 1, Price: decimal.NewFromInt(120)}},
	}, client)
	require.NoError(t, err)
	return document.NewPostedEvent(doc, document.StatusDraft)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to typed and wildcard handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		posted := newTestHandler(document.EventTypeDocumentPosted)
		created := newTestHandler(document.EventTypeDocumentCreated)
		all := newTestHandler()
		bus.Subscribe(posted)
		bus.Subscribe(created)
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newPostedEvent(t)))

		assert.Equal(t, 1, posted.count())
		assert.Equal(t, 0, created.count())
		assert.Equal(t, 1, all.count())
	})

	t.Run("explicit event types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		h := newTestHandler(document.EventTypeDocumentCreated)
		bus.Subscribe(h, document.EventTypeDocumentPosted)

		require.NoError(t, bus.Publish(ctx, newPostedEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("handler errors are combined and others still run", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := newTestHandler(document.EventTypeDocumentPosted)
		failing.err = errors.New("smtp down")
		panicking := newTestHandler(document.EventTypeDocumentPosted)
		panicking.panicWith = "nil map"
		ok := newTestHandler(document.EventTypeDocumentPosted)
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(ok)

		err := bus.Publish(ctx, newPostedEvent(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp down")
		assert.Contains(t, err.Error(), "handler panicked")
		assert.Equal(t, 1, ok.count())
		assert.Equal(t, 2, recorded.Len())
	})

	t.Run("unsubscribed handlers receive nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		h := newTestHandler(document.EventTypeDocumentPosted)
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newPostedEvent(t)))
		assert.Equal(t, 0, h.count())
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.Running())
}

func TestBusNotificationGateway_Notify(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(nil)
	gateway := NewBusNotificationGateway(bus)

	core, recorded := observer.New(zapcore.InfoLevel)
	bus.Subscribe(NewPostedLogHandler(zap.New(core)))

	event := newPostedEvent(t)
	require.NoError(t, gateway.Notify(ctx, event))

	entries := recorded.FilterMessage("document posted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "INV-2025-0001", fields["document_number"])
	assert.Equal(t, "PENDING", fields["status"])
	assert.Equal(t, "120.00", fields["total_price"])

	failing := newTestHandler(document.EventTypeDocumentPosted)
	failing.err = errors.New("webhook rejected")
	bus.Subscribe(failing)
	assert.Error(t, gateway.Notify(ctx, event))
}

func TestDocumentEventSerializer(t *testing.T) {
	s := NewDocumentEventSerializer()
	event := newPostedEvent(t)

	data, err := s.Serialize(event)
	require.NoError(t, err)

	decoded, err := s.Deserialize(document.EventTypeDocumentPosted, data)
	require.NoError(t, err)
	posted, ok := decoded.(*document.PostedEvent)
	require.True(t, ok)
	assert.Equal(t, event.EventID(), posted.EventID())
	assert.Equal(t, event.CompanyID(), posted.CompanyID())
	assert.Equal(t, "INV-2025-0001", posted.DocumentNumber)
	assert.Equal(t, document.StatusDraft, posted.FromStatus)
	assert.True(t, event.TotalPrice.Equal(posted.TotalPrice))
	assert.Equal(t, "ap@acme.test", posted.ClientEmail)

	_, err = s.Deserialize("InvoiceEmailed", data)
	assert.Error(t, err)
}
