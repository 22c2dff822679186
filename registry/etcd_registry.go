// etcd-based Registry implementation.
//
// etcd acts as the distributed phonebook for targets:
//
//	Key:   /shared-bucket/{target}/{addr}
//	Value: JSON-encoded ServiceInstance
//
// Registration uses TTL leases: when a process dies, its lease expires and
// the entry disappears on its own, so callers never route to ghosts.
package registry

import (
	"context"
	"encoding/json"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/shared-bucket/"

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
}

func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

// Register adds an instance under the target with a TTL lease and starts
// background KeepAlive renewal.
//
// The lease ID stays a local variable rather than a struct field: multiple
// servers may share one EtcdRegistry, and a shared field would race.
func (r *EtcdRegistry) Register(target string, instance ServiceInstance, ttl int64) error {
	ctx := context.TODO()

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, keyPrefix+target+"/"+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}

	// Drain KeepAlive responses so the channel never fills up.
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes an instance; called during graceful shutdown before
// the listener closes, so callers stop sending first.
func (r *EtcdRegistry) Deregister(target string, addr string) error {
	_, err := r.client.Delete(context.TODO(), keyPrefix+target+"/"+addr)
	return err
}

// Watch emits the full refreshed instance list on every change under the
// target prefix (registrations, deregistrations, lease expirations).
func (r *EtcdRegistry) Watch(target string) <-chan []ServiceInstance {
	ctx := context.TODO()
	ch := make(chan []ServiceInstance, 1)
	prefix := keyPrefix + target + "/"

	go func() {
		watchChan := r.client.Watch(ctx, prefix, clientv3.WithPrefix())
		for range watchChan {
			// Re-fetch the whole list; simpler than folding individual events.
			instances, _ := r.Discover(target)
			ch <- instances
		}
	}()

	return ch
}

// Discover returns all instances currently registered for the target.
func (r *EtcdRegistry) Discover(target string) ([]ServiceInstance, error) {
	resp, err := r.client.Get(context.TODO(), keyPrefix+target+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]ServiceInstance, 0)
	for _, kv := range resp.Kvs {
		var instance ServiceInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // skip malformed entries
		}
		instances = append(instances, instance)
	}

	return instances, nil
}
