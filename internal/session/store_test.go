package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAndGet(t *testing.T) {
	st := NewStore(DefaultTTL)
	defer st.Close()

	id, sess := st.Create(sampleDoc)
	require.NotEmpty(t, id)
	assert.Equal(t, sampleDoc, sess.Current())

	got, ok := st.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, st.Len())

	_, ok = st.Get("unknown")
	assert.False(t, ok)
}

func TestStoreUniqueIDs(t *testing.T) {
	st := NewStore(DefaultTTL)
	defer st.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, _ := st.Create("")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestStoreDelete(t *testing.T) {
	st := NewStore(DefaultTTL)
	defer st.Close()

	id, _ := st.Create(sampleDoc)
	st.Delete(id)
	_, ok := st.Get(id)
	assert.False(t, ok)
	assert.Zero(t, st.Len())

	st.Delete("unknown")
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	st := NewStore(10 * time.Millisecond)
	defer st.Close()

	stale, _ := st.Create(sampleDoc)
	time.Sleep(20 * time.Millisecond)
	fresh, _ := st.Create(sampleDoc)

	st.cleanup()

	_, ok := st.Get(stale)
	assert.False(t, ok)
	_, ok = st.Get(fresh)
	assert.True(t, ok)
}
