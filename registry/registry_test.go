package registry

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRegisterAndDiscover(t *testing.T) {
	reg := NewStaticRegistry()

	require.NoError(t, reg.Register("customers", ServiceInstance{Addr: "127.0.0.1:8001"}, 10))
	require.NoError(t, reg.Register("customers", ServiceInstance{Addr: "127.0.0.1:8002"}, 10))
	// Duplicate registration is a no-op.
	require.NoError(t, reg.Register("customers", ServiceInstance{Addr: "127.0.0.1:8001"}, 10))

	instances, err := reg.Discover("customers")
	require.NoError(t, err)
	assert.Len(t, instances, 2)

	require.NoError(t, reg.Deregister("customers", "127.0.0.1:8001"))
	instances, err = reg.Discover("customers")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "127.0.0.1:8002", instances[0].Addr)
}

func TestStaticDiscoverUnknownTarget(t *testing.T) {
	reg := NewStaticRegistry()
	_, err := reg.Discover("nowhere")
	assert.Error(t, err)
}

func TestStaticWatch(t *testing.T) {
	reg := NewStaticRegistry()
	ch := reg.Watch("customers")

	require.NoError(t, reg.Register("customers", ServiceInstance{Addr: "127.0.0.1:8001"}, 10))

	select {
	case instances := <-ch:
		require.Len(t, instances, 1)
		assert.Equal(t, "127.0.0.1:8001", instances[0].Addr)
	case <-time.After(time.Second):
		t.Fatal("no watch notification")
	}
}

// Requires a local etcd; skipped when none is listening.
func TestEtcdRegisterAndDiscover(t *testing.T) {
	conn, err := net.DialTimeout("tcp", "localhost:2379", 200*time.Millisecond)
	if err != nil {
		t.Skip("etcd not reachable on localhost:2379")
	}
	conn.Close()

	reg, err := NewEtcdRegistry([]string{"localhost:2379"})
	require.NoError(t, err)

	inst1 := ServiceInstance{Addr: "127.0.0.1:8001"}
	inst2 := ServiceInstance{Addr: "127.0.0.1:8002"}

	require.NoError(t, reg.Register("customers", inst1, 10))
	require.NoError(t, reg.Register("customers", inst2, 10))
	defer reg.Deregister("customers", inst2.Addr)

	instances, err := reg.Discover("customers")
	require.NoError(t, err)
	assert.Len(t, instances, 2)

	require.NoError(t, reg.Deregister("customers", inst1.Addr))
	time.Sleep(100 * time.Millisecond)

	instances, err = reg.Discover("customers")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, inst2.Addr, instances[0].Addr)
}
