package presence

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id     string
	closed bool
}

func (c *fakeConn) Send(ctx context.Context, payload []byte) error { return nil }
func (c *fakeConn) Close() error                                   { c.closed = true; return nil }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	conn := &fakeConn{id: "a"}
	prev := r.Register("user-1", conn)
	assert.Nil(t, prev)

	got, ok := r.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, conn, got)

	_, ok = r.Lookup("user-2")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ReconnectLastWriteWins(t *testing.T) {
	r := NewRegistry()

	first := &fakeConn{id: "first"}
	second := &fakeConn{id: "second"}

	r.Register("user-1", first)
	prev := r.Register("user-1", second)

	assert.Same(t, first, prev)

	got, ok := r.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_StaleUnregisterKeepsNewConnection(t *testing.T) {
	r := NewRegistry()

	stale := &fakeConn{id: "stale"}
	fresh := &fakeConn{id: "fresh"}

	r.Register("user-1", stale)
	r.Register("user-1", fresh)

	// The stale connection's teardown fires after the reconnect.
	r.Unregister("user-1", stale)

	got, ok := r.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, fresh, got)

	r.Unregister("user-1", fresh)
	_, ok = r.Lookup("user-1")
	assert.False(t, ok)
}

func TestRegistry_UnregisterUnknownUserIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister("ghost", &fakeConn{})
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%10)
			conn := &fakeConn{id: userID}
			r.Register(userID, conn)
			r.Lookup(userID)
			r.Unregister(userID, conn)
		}(i)
	}
	wg.Wait()

	// Every goroutine unregistered its own handle; only handles that were
	// overwritten (and therefore not removable by their owner) may remain.
	assert.LessOrEqual(t, r.Count(), 10)
}
