package client

import (
	"errors"
	"fmt"
)

// kind identifies a facade in the registry.
type kind string

const (
	kindOrganizations    kind = "organizations"
	kindSpaces           kind = "spaces"
	kindDomains          kind = "domains"
	kindServiceInstances kind = "service_instances"
	kindServiceKeys      kind = "service_keys"
	kindTasks            kind = "tasks"
	kindApplications     kind = "applications"
	kindRoutes           kind = "routes"
	kindLogs             kind = "logs"
)

var errMissingDependency = errors.New("facade dependency not installed")

// builder constructs one facade. Its declared dependencies must already be
// installed when it runs.
type builder struct {
	kind  kind
	deps  []kind
	build func(r *registry) (interface{}, error)
}

// registry holds constructed facades keyed by resource kind. Builders run in
// declaration order and fail construction outright when a dependency is
// missing, so a client is never observable in a partially wired state.
type registry struct {
	facades map[kind]interface{}
}

func newRegistry() *registry {
	return &registry{facades: make(map[kind]interface{})}
}

func (r *registry) install(builders []builder) error {
	for _, b := range builders {
		for _, dep := range b.deps {
			if _, ok := r.facades[dep]; !ok {
				return fmt.Errorf("%w: %q requires %q", errMissingDependency, b.kind, dep)
			}
		}

		facade, err := b.build(r)
		if err != nil {
			return fmt.Errorf("building %q facade: %w", b.kind, err)
		}

		r.facades[b.kind] = facade
	}

	return nil
}

// lookup fetches an installed facade with its concrete type. A failed
// assertion means a builder registered the wrong value, which install treats
// as a construction bug rather than a runtime condition.
func lookup[T any](r *registry, k kind) (T, error) {
	var zero T

	facade, ok := r.facades[k]
	if !ok {
		return zero, fmt.Errorf("%w: %q", errMissingDependency, k)
	}

	typed, ok := facade.(T)
	if !ok {
		return zero, fmt.Errorf("facade %q has unexpected type %T", k, facade)
	}

	return typed, nil
}
