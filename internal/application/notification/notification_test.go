package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockLivePublisher struct {
	mock.Mock
}

func (m *MockLivePublisher) PublishLive(ctx context.Context, event LiveEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockEventForwarder struct {
	mock.Mock
}

func (m *MockEventForwarder) Forward(ctx context.Context, event shared.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newTestOrder(t *testing.T, storeID uuid.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(nil, "Masala Chai", decimal.NewFromInt(120), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(storeID, order.CustomerInfo{Name: "Asha", Phone: "9876543210"},
		[]order.Item{item}, order.DeliveryModePickup, decimal.Zero)
	require.NoError(t, err)
	o.OrderNumber = "ORD-20260101-ABCD"
	return o
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("unread only sets filter", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n, err := notification.New(storeID, notification.TypeNewOrder, "New order", "")
		require.NoError(t, err)

		unread := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters["unread"] == true })
		repo.On("FindAllForStore", ctx, storeID, unread).Return([]notification.Notification{*n}, nil)
		repo.On("CountForStore", ctx, storeID, unread).Return(int64(1), nil)

		page, err := svc.List(ctx, storeID, true, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "new_order", page.Items[0].Type)
		assert.Equal(t, int64(1), page.Total)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		repo.On("FindAllForStore", ctx, storeID, mock.Anything).Return([]notification.Notification(nil), errors.New("db down"))

		_, err := svc.List(ctx, storeID, false, shared.DefaultFilter())
		assert.Error(t, err)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("unread notification is saved", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n, _ := notification.New(storeID, notification.TypeLowStock, "Low stock", "")
		repo.On("FindByIDForStore", ctx, storeID, n.ID).Return(n, nil)
		repo.On("Save", ctx, n).Return(nil)

		resp, err := svc.MarkRead(ctx, storeID, n.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsRead)
		assert.NotNil(t, resp.ReadAt)
		repo.AssertExpectations(t)
	})

	t.Run("already read is not saved again", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n, _ := notification.New(storeID, notification.TypeLowStock, "Low stock", "")
		n.MarkRead()
		repo.On("FindByIDForStore", ctx, storeID, n.ID).Return(n, nil)

		_, err := svc.MarkRead(ctx, storeID, n.ID)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		id := uuid.New()
		repo.On("FindByIDForStore", ctx, storeID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.MarkRead(ctx, storeID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNotificationService_Counts(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)
	repo.On("MarkAllRead", ctx, storeID).Return(int64(4), nil)
	repo.On("CountUnread", ctx, storeID).Return(int64(0), nil)

	changed, err := svc.MarkAllRead(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), changed)

	unread, err := svc.UnreadCount(ctx, storeID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestOrderEventsHandler_OrderCreated(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	o := newTestOrder(t, storeID)
	evt := order.NewOrderCreatedEvent(o)

	live := new(MockLivePublisher)
	fwd := new(MockEventForwarder)
	h := NewOrderEventsHandler(live, nil).WithForwarder(fwd)

	live.On("PublishLive", ctx, mock.MatchedBy(func(e LiveEvent) bool {
		return e.Type == LiveEventOrderCreated &&
			e.StoreID == storeID &&
			e.OrderID != nil && *e.OrderID == o.ID &&
			e.OrderNumber == "ORD-20260101-ABCD" &&
			e.Total != ""
	})).Return(nil)
	fwd.On("Forward", ctx, evt).Return(nil)

	require.NoError(t, h.Handle(ctx, evt))
	live.AssertExpectations(t)
	fwd.AssertExpectations(t)
}

func TestOrderEventsHandler_StatusChanged(t *testing.T) {
	ctx := context.Background()
	o := newTestOrder(t, uuid.New())
	require.NoError(t, o.TransitionTo(order.StatusConfirmed))
	evt := order.NewOrderStatusChangedEvent(o, order.StatusPending)

	live := new(MockLivePublisher)
	h := NewOrderEventsHandler(live, nil)
	live.On("PublishLive", ctx, mock.MatchedBy(func(e LiveEvent) bool {
		return e.Type == LiveEventOrderUpdated && e.Total == ""
	})).Return(nil)

	require.NoError(t, h.Handle(ctx, evt))
	live.AssertExpectations(t)
}

func TestOrderEventsHandler_Errors(t *testing.T) {
	ctx := context.Background()
	o := newTestOrder(t, uuid.New())
	evt := order.NewOrderCreatedEvent(o)

	t.Run("forward still runs when live publish fails", func(t *testing.T) {
		live := new(MockLivePublisher)
		fwd := new(MockEventForwarder)
		h := NewOrderEventsHandler(live, nil).WithForwarder(fwd)
		live.On("PublishLive", ctx, mock.Anything).Return(errors.New("redis down"))
		fwd.On("Forward", ctx, evt).Return(nil)

		err := h.Handle(ctx, evt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "live publish")
		fwd.AssertExpectations(t)
	})

	t.Run("unexpected event type", func(t *testing.T) {
		h := NewOrderEventsHandler(new(MockLivePublisher), nil)
		err := h.Handle(ctx, catalog.NewProductsImportedEvent(uuid.New(), 1, 0))
		assert.Error(t, err)
	})
}

func TestImportResultHandler(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockNotificationRepository)
	h := NewImportResultHandler(repo, nil)

	assert.Equal(t, []string{catalog.EventTypeProductsImported}, h.EventTypes())

	repo.On("Save", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.StoreID == storeID &&
			n.Type == notification.TypeImportResult &&
			n.Message == "12 products added, 3 updated"
	})).Return(nil)

	require.NoError(t, h.Handle(ctx, catalog.NewProductsImportedEvent(storeID, 12, 3)))
	repo.AssertExpectations(t)
}
