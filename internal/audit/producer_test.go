package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_NoBrokersIsNoop(t *testing.T) {
	t.Parallel()

	p := NewProducer(nil, "admin_activity", nil)
	// Must not panic or block.
	p.Publish(context.Background(), Entry(1, "admin@example.com", "product.delete", "product", 9))
	require.NoError(t, p.Close())

	var nilProducer *Producer
	nilProducer.Publish(context.Background(), Event{})
	require.NoError(t, nilProducer.Close())
}

func TestEvent_Marshal(t *testing.T) {
	t.Parallel()

	e := Entry(7, "admin@example.com", "order.status_update", "order", 42)
	e.ID = "evt-1"
	e.At = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e.Detail = "PENDING -> SHIPPED"

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.EqualValues(t, 7, m["actor_id"])
	assert.Equal(t, "order.status_update", m["action"])
	assert.Equal(t, "order", m["entity"])
	assert.Equal(t, "42", m["entity_id"])
	assert.Equal(t, "PENDING -> SHIPPED", m["detail"])
}
