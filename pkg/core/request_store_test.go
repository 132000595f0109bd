package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAndResolve(t *testing.T) {
	store := NewInMemoryRequestStore()
	store.Track("rq-1", 42, "")

	orderID, ok := store.OrderID("rq-1")
	require.True(t, ok)
	assert.Equal(t, int64(42), orderID)
	assert.Equal(t, "rq-1", store.LatestRequestID(42))

	_, ok = store.OrderID("rq-unknown")
	assert.False(t, ok)
}

func TestAmendmentsKeepEveryRequestIDResolvable(t *testing.T) {
	store := NewInMemoryRequestStore()
	store.Track("rq-1", 42, "")
	store.Track("rq-2", 42, "rq-1")
	store.Track("rq-3", 42, "rq-2")

	assert.Equal(t, "rq-3", store.LatestRequestID(42))
	for _, id := range []string{"rq-1", "rq-2", "rq-3"} {
		orderID, ok := store.OrderID(id)
		require.True(t, ok)
		assert.Equal(t, int64(42), orderID)
	}
}

func TestForgetOrderDropsMappings(t *testing.T) {
	store := NewInMemoryRequestStore()
	store.Track("rq-1", 42, "")
	store.Track("rq-2", 42, "rq-1")

	store.ForgetOrder(42)
	_, ok := store.OrderID("rq-1")
	assert.False(t, ok)
	_, ok = store.OrderID("rq-2")
	assert.False(t, ok)
	assert.Empty(t, store.LatestRequestID(42))
}
