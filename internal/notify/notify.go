// Package notify derives the console's notification feed from pending
// orders. The backend does store notification rows, but they are keyed to
// a single user account and their read flag is a shared column, so the
// feed reads pending orders directly instead and keeps read/unread marks
// in the local console store, keyed per admin, so they survive restarts.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/session"
)

const newOrderType = "new_order"

// feedPageSize bounds how many pending orders turn into notifications.
const feedPageSize = 50

type Notification struct {
	ID        string
	Type      string
	Order     adminapi.Order
	Read      bool
	CreatedAt string
}

// OrderSource is the slice of the API client the feed needs.
type OrderSource interface {
	Orders(ctx context.Context, f adminapi.OrderFilters) (*adminapi.Page[adminapi.Order], error)
}

type Feed struct {
	source OrderSource
	store  session.Store
}

func NewFeed(source OrderSource, store session.Store) *Feed {
	return &Feed{source: source, store: store}
}

func readStateKey(adminID int64) string {
	return fmt.Sprintf("notify_read:%d", adminID)
}

// List returns the admin's notifications, newest first, with the unread
// count.
func (f *Feed) List(ctx context.Context, adminID int64) ([]Notification, int, error) {
	page, err := f.source.Orders(ctx, adminapi.OrderFilters{Status: string(adminapi.OrderPending), Size: feedPageSize})
	if err != nil {
		return nil, 0, fmt.Errorf("load pending orders: %w", err)
	}

	read, err := f.readSet(adminID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]Notification, 0, len(page.Content))
	unread := 0
	for _, order := range page.Content {
		n := Notification{
			ID:        fmt.Sprintf("order-%d", order.ID),
			Type:      newOrderType,
			Order:     order,
			CreatedAt: order.CreatedAt,
		}
		n.Read = read[n.ID]
		if !n.Read {
			unread++
		}
		items = append(items, n)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, unread, nil
}

func (f *Feed) MarkRead(adminID int64, notificationID string) error {
	read, err := f.readSet(adminID)
	if err != nil {
		return err
	}
	read[notificationID] = true
	return f.saveReadSet(adminID, read)
}

func (f *Feed) MarkAllRead(ctx context.Context, adminID int64) error {
	items, _, err := f.List(ctx, adminID)
	if err != nil {
		return err
	}
	read, err := f.readSet(adminID)
	if err != nil {
		return err
	}
	for _, n := range items {
		read[n.ID] = true
	}
	return f.saveReadSet(adminID, read)
}

func (f *Feed) readSet(adminID int64) (map[string]bool, error) {
	raw, ok, err := f.store.Get(readStateKey(adminID))
	if err != nil {
		return nil, fmt.Errorf("load read state: %w", err)
	}
	read := make(map[string]bool)
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &read); err != nil {
			// Corrupt state resets to all-unread rather than failing the page.
			return make(map[string]bool), nil
		}
	}
	return read, nil
}

func (f *Feed) saveReadSet(adminID int64, read map[string]bool) error {
	data, err := json.Marshal(read)
	if err != nil {
		return fmt.Errorf("marshal read state: %w", err)
	}
	return f.store.Set(readStateKey(adminID), string(data))
}
