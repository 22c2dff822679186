package registry

import (
	"fmt"
	"sync"
)

// StaticRegistry is an in-memory Registry with no external dependency.
// Tests and fixed single-node wiring use it; TTLs are ignored because
// nothing expires entries.
type StaticRegistry struct {
	mu        sync.RWMutex
	instances map[string][]ServiceInstance
	watchers  map[string][]chan []ServiceInstance
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		instances: make(map[string][]ServiceInstance),
		watchers:  make(map[string][]chan []ServiceInstance),
	}
}

func (r *StaticRegistry) Register(target string, instance ServiceInstance, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.instances[target] {
		if existing.Addr == instance.Addr {
			return nil // already present
		}
	}
	r.instances[target] = append(r.instances[target], instance)
	r.notifyLocked(target)
	return nil
}

func (r *StaticRegistry) Deregister(target string, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.instances[target][:0]
	for _, existing := range r.instances[target] {
		if existing.Addr != addr {
			kept = append(kept, existing)
		}
	}
	r.instances[target] = kept
	r.notifyLocked(target)
	return nil
}

func (r *StaticRegistry) Discover(target string) ([]ServiceInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	registered := r.instances[target]
	if len(registered) == 0 {
		return nil, fmt.Errorf("registry: no instances for target %q", target)
	}
	out := make([]ServiceInstance, len(registered))
	copy(out, registered)
	return out, nil
}

func (r *StaticRegistry) Watch(target string) <-chan []ServiceInstance {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan []ServiceInstance, 1)
	r.watchers[target] = append(r.watchers[target], ch)
	return ch
}

func (r *StaticRegistry) notifyLocked(target string) {
	snapshot := make([]ServiceInstance, len(r.instances[target]))
	copy(snapshot, r.instances[target])
	for _, ch := range r.watchers[target] {
		select {
		case ch <- snapshot:
		default: // watcher not keeping up, drop the update
		}
	}
}
