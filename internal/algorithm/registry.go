// Package algorithm maps (dtype, method, CPU) specializations to container
// factories. A specialization is chosen once, when a batch is constructed.
package algorithm

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/tensor"
	"github.com/samber/lo"
)

// ErrUnsupportedSpecialization is returned by Bind when no container was
// registered for the requested key.
var ErrUnsupportedSpecialization = errors.New("unsupported specialization")

// Key identifies one compiled container specialization.
type Key struct {
	DType  tensor.DataType
	Method int
	CPU    env.CPU
}

// String returns "dtype/method/cpu".
func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%s", k.DType, k.Method, k.CPU)
}

// UnsupportedError reports the key that could not be bound.
type UnsupportedError struct {
	Algorithm string
	Key       Key
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: no container for %s: %v", e.Algorithm, e.Key, ErrUnsupportedSpecialization)
}

// Unwrap returns ErrUnsupportedSpecialization.
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedSpecialization
}

// Factory builds a container bound to an environment.
type Factory[C any] func(e *env.Environment) C

// Registry holds the container factories of one algorithm (for example the
// backward pass of one layer kind).
type Registry[C any] struct {
	name      string
	mu        sync.RWMutex
	factories map[Key]Factory[C]
}

// NewRegistry creates an empty registry; name is used in errors.
func NewRegistry[C any](name string) *Registry[C] {
	return &Registry[C]{
		name:      name,
		factories: make(map[Key]Factory[C]),
	}
}

// Name returns the algorithm name.
func (r *Registry[C]) Name() string {
	return r.name
}

// Register adds a factory. Registering a key twice panics.
func (r *Registry[C]) Register(key Key, f Factory[C]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.factories[key]; dup {
		panic(fmt.Sprintf("%s: duplicate registration for %s", r.name, key))
	}
	r.factories[key] = f
}

// Supports reports whether key has a registered factory.
func (r *Registry[C]) Supports(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[key]
	return ok
}

// Bind builds the container for key. There is no fallback to another
// specialization: an unknown key is an *UnsupportedError.
func (r *Registry[C]) Bind(key Key, e *env.Environment) (C, error) {
	r.mu.RLock()
	f, ok := r.factories[key]
	r.mu.RUnlock()

	if !ok {
		var zero C
		return zero, &UnsupportedError{Algorithm: r.name, Key: key}
	}
	return f(e), nil
}

// Keys returns the registered keys ordered by dtype, method, then CPU.
func (r *Registry[C]) Keys() []Key {
	r.mu.RLock()
	keys := lo.Keys(r.factories)
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.DType != b.DType {
			return a.DType < b.DType
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.CPU < b.CPU
	})
	return keys
}
