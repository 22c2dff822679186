package loadbalance

import (
	"fmt"
	"math/rand/v2"

	"sharedbucket/registry"
)

// RandomBalancer picks a uniformly random instance on each call.
type RandomBalancer struct{}

func (b *RandomBalancer) Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}
	return &instances[rand.IntN(len(instances))], nil
}

func (b *RandomBalancer) Name() string {
	return "Random"
}
