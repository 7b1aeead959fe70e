package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "campora:7:transcript:42", Key(7, "transcript", "42"))
	assert.Equal(t, "campora:1:rooms", Key(1, "rooms"))
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, 12*time.Hour, TTLFor(ClassReference))
	assert.Equal(t, 10*time.Minute, TTLFor(ClassTranscript))
	assert.Equal(t, 5*time.Minute, TTLFor(ClassReport))
	assert.Equal(t, 5*time.Minute, TTLFor(Class("unknown")))
}

func TestNoopStoreRemember(t *testing.T) {
	var store NoopStore
	calls := 0

	var got map[string]int
	err := store.Remember(context.Background(), "k", ClassReport, &got, func() (interface{}, error) {
		calls++
		return map[string]int{"total": 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got["total"])

	// noop never caches, every call hits the source
	err = store.Remember(context.Background(), "k", ClassReport, &got, func() (interface{}, error) {
		calls++
		return map[string]int{"total": 4}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got["total"])
	assert.Equal(t, 2, calls)
}

func TestNoopStoreRememberPropagatesFetchError(t *testing.T) {
	var store NoopStore
	sentinel := errors.New("db gone")

	var got int
	err := store.Remember(context.Background(), "k", ClassReport, &got, func() (interface{}, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}
