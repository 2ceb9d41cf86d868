package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "meetsched:alice:seen", seenKey("alice"))
	assert.Equal(t, "meetsched:alice:confirm:bob@example.com", confirmKey("alice", "bob@example.com"))
	assert.Equal(t, "meetsched:alice:activity", activityKey("alice"))
}

func TestKeysAreUserScoped(t *testing.T) {
	assert.NotEqual(t, seenKey("alice"), seenKey("bob"))
	assert.NotEqual(t, confirmKey("alice", "x@example.com"), confirmKey("bob", "x@example.com"))
}

func TestNewStoreSeenLimitDefault(t *testing.T) {
	s := NewStore(Config{Addr: "localhost:6379"})
	assert.Equal(t, int64(DefaultSeenLimit), s.seenLimit)

	s = NewStore(Config{Addr: "localhost:6379", SeenLimit: 100})
	assert.Equal(t, int64(100), s.seenLimit)
}
