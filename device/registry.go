// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// InstanceFactory creates a HAL instance for one API.
type InstanceFactory func(desc *hal.InstanceDescriptor) (hal.Instance, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[API]InstanceFactory)
)

// Register registers an instance factory for api. It is typically called
// from init functions. A factory already registered for api is replaced.
func Register(api API, factory InstanceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[api] = factory
}

// Unregister removes the factory for api.
// This is useful for testing.
func Unregister(api API) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, api)
}

// IsRegistered reports whether a backend is registered for api.
func IsRegistered(api API) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[api]
	return ok
}

// Available returns the registered APIs in declaration order.
func Available() []API {
	registryMu.RLock()
	defer registryMu.RUnlock()

	apis := make([]API, 0, len(factories))
	for api := range factories {
		apis = append(apis, api)
	}
	sort.Slice(apis, func(i, j int) bool { return apis[i] < apis[j] })
	return apis
}

func lookup(api API) (InstanceFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[api]
	return f, ok
}

// errBackendNotLinked reports a registered API whose HAL backend is missing
// from the binary.
func errBackendNotLinked(api API) error {
	return fmt.Errorf("%w: %v HAL backend not linked", ErrUnsupportedAPI, api)
}
