// Package registry resolves addressable target names to network instances.
//
// The sender side never decides routing by itself: it asks a Registry for
// the instances currently serving a target name and lets a balancer pick
// one. The etcd implementation is authoritative in deployments; the static
// implementation serves tests and fixed single-node wiring.
package registry

// ServiceInstance is one reachable endpoint serving a target name.
type ServiceInstance struct {
	Addr string
}

type Registry interface {
	Register(target string, instance ServiceInstance, ttl int64) error
	Deregister(target string, addr string) error
	Discover(target string) ([]ServiceInstance, error)
	Watch(target string) <-chan []ServiceInstance
}
