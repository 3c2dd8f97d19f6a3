package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/session"
)

type fakeOrders struct {
	filters adminapi.OrderFilters
	orders  []adminapi.Order
}

func (f *fakeOrders) Orders(ctx context.Context, filters adminapi.OrderFilters) (*adminapi.Page[adminapi.Order], error) {
	f.filters = filters
	return &adminapi.Page[adminapi.Order]{Content: f.orders, TotalElements: int64(len(f.orders))}, nil
}

func pendingOrders() []adminapi.Order {
	return []adminapi.Order{
		{ID: 1, OrderNumber: "ORD-00001", Status: adminapi.OrderPending, CreatedAt: "2025-06-01T08:00:00"},
		{ID: 2, OrderNumber: "ORD-00002", Status: adminapi.OrderPending, CreatedAt: "2025-06-02T08:00:00"},
	}
}

func TestFeed_ListDerivesFromPendingOrders(t *testing.T) {
	t.Parallel()

	src := &fakeOrders{orders: pendingOrders()}
	feed := NewFeed(src, session.NewMemoryStore())

	items, unread, err := feed.List(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, string(adminapi.OrderPending), src.filters.Status, "feed queries pending orders only")
	require.Len(t, items, 2)
	assert.Equal(t, 2, unread)
	assert.Equal(t, "order-2", items[0].ID, "newest first")
	assert.Equal(t, "new_order", items[0].Type)
	assert.False(t, items[0].Read)
}

func TestFeed_MarkReadPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	src := &fakeOrders{orders: pendingOrders()}

	feed := NewFeed(src, store)
	require.NoError(t, feed.MarkRead(1, "order-1"))

	// A fresh feed over the same store still sees the mark.
	feed2 := NewFeed(src, store)
	items, unread, err := feed2.List(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, unread)
	for _, n := range items {
		if n.ID == "order-1" {
			assert.True(t, n.Read)
		} else {
			assert.False(t, n.Read)
		}
	}
}

func TestFeed_ReadStateIsPerAdmin(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	src := &fakeOrders{orders: pendingOrders()}
	feed := NewFeed(src, store)

	require.NoError(t, feed.MarkRead(1, "order-1"))

	_, unreadOther, err := feed.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, unreadOther)
}

func TestFeed_MarkAllRead(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	src := &fakeOrders{orders: pendingOrders()}
	feed := NewFeed(src, store)

	require.NoError(t, feed.MarkAllRead(context.Background(), 1))

	_, unread, err := feed.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestFeed_CorruptReadStateResets(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("notify_read:1", "{not json"))

	feed := NewFeed(&fakeOrders{orders: pendingOrders()}, store)
	_, unread, err := feed.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}
