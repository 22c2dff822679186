// Package loadbalance selects one instance from a target's discovered set
// before each call.
//
// Two strategies are provided:
//   - RoundRobin: even distribution, the default for stateless targets
//   - Random:     uniform random pick, useful when callers churn quickly
package loadbalance

import "sharedbucket/registry"

// Balancer picks one instance from the available list.
// Pick runs on every call and must be goroutine-safe.
type Balancer interface {
	Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name identifies the strategy in logs.
	Name() string
}
