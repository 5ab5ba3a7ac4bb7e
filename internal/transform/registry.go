package transform

import (
	"fmt"
	"sync"

	"github.com/mridgway/shaker/internal/errors"
)

// Factory constructs a transform from the opaque config block.
type Factory func(extra map[string]interface{}) (Transform, error)

// Registry maps task identifiers to transform factories. It is populated at
// startup from a fixed base set plus any externally supplied registrations;
// there is no dynamic loading.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry holding the base transform set.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("files", func(extra map[string]interface{}) (Transform, error) {
		return &FilesTransform{}, nil
	})
	return r
}

// Register adds or replaces a factory under the given task identifier.
func (r *Registry) Register(task string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[task] = factory
}

// Resolve constructs the transform registered under the task identifier.
func (r *Registry) Resolve(task string, extra map[string]interface{}) (Transform, error) {
	r.mu.RLock()
	factory, ok := r.factories[task]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrorTypeConfig, errors.ErrCodeUnknownTask,
			fmt.Sprintf("no output transform registered for task %q", task))
	}
	return factory(extra)
}

// Has reports whether a factory is registered under the task identifier.
func (r *Registry) Has(task string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[task]
	return ok
}

// Tasks returns the registered task identifiers.
func (r *Registry) Tasks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := make([]string, 0, len(r.factories))
	for task := range r.factories {
		tasks = append(tasks, task)
	}
	return tasks
}
