package cipher

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps operation names to operations. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// defaultRegistry backs the package-level functions and pipelines.
var defaultRegistry = NewRegistry()

// Register adds op. Names must be non-empty and unique.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return errors.New("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return errors.New("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}
	r.ops[name] = op
	return nil
}

func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.ops[name]
	return op, exists
}

// List returns the operations matching keep, sorted by name. A nil keep
// matches everything.
func (r *Registry) List(keep func(Operation) bool) []Operation {
	r.mu.RLock()
	ops := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		if keep == nil || keep(op) {
			ops = append(ops, op)
		}
	}
	r.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
	return ops
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ops, name)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = make(map[string]Operation)
}

// RegisterOperation adds an operation to the default registry
func RegisterOperation(op Operation) error {
	return defaultRegistry.Register(op)
}

// GetOperation retrieves an operation from the default registry by name
func GetOperation(name string) (Operation, bool) {
	return defaultRegistry.Get(name)
}

// ListOperations returns all registered operations sorted by name
func ListOperations() []Operation {
	return defaultRegistry.List(nil)
}

// ListOperationsByType returns registered operations of one type
func ListOperationsByType(opType OperationType) []Operation {
	return defaultRegistry.List(func(op Operation) bool {
		return op.Type() == opType
	})
}

// UnregisterOperation removes an operation (mainly for testing)
func UnregisterOperation(name string) {
	defaultRegistry.Unregister(name)
}

// ClearRegistry removes all operations (mainly for testing)
func ClearRegistry() {
	defaultRegistry.Clear()
}
