package ignition

import (
	"fmt"
)

// ContractFuture is a contract a module will deploy. Args may contain other
// futures of the same module, which resolve to their deployed address.
type ContractFuture struct {
	id           string
	moduleID     string
	ContractName string
	Args         []any
}

// ID is "<module>#<contract>" unless overridden with WithID.
func (f *ContractFuture) ID() string {
	return f.id
}

func (f *ContractFuture) ModuleID() string {
	return f.moduleID
}

// Module is a named, ordered set of contract deployments.
type Module struct {
	ID      string
	Futures []*ContractFuture
	// Results maps the names a module exposes to its futures.
	Results map[string]*ContractFuture
}

// ModuleBuilder collects the futures of one module.
type ModuleBuilder struct {
	moduleID string
	futures  []*ContractFuture
	ids      map[string]bool
}

type ContractOption func(*ContractFuture)

// WithID replaces the contract name in the future ID, so one contract can be
// deployed twice by a module.
func WithID(id string) ContractOption {
	return func(f *ContractFuture) {
		f.id = f.moduleID + "#" + id
	}
}

// Contract registers a deployment of contractName with constructor args.
// Registering the same future ID twice panics.
func (m *ModuleBuilder) Contract(contractName string, args []any, opts ...ContractOption) *ContractFuture {
	future := &ContractFuture{
		id:           m.moduleID + "#" + contractName,
		moduleID:     m.moduleID,
		ContractName: contractName,
		Args:         args,
	}
	for _, opt := range opts {
		opt(future)
	}

	if m.ids[future.id] {
		panic(fmt.Sprintf("ignition: duplicate future id %s", future.id))
	}
	for _, arg := range args {
		if dep, ok := arg.(*ContractFuture); ok && !m.ids[dep.id] {
			panic(fmt.Sprintf("ignition: %s depends on %s, which is not registered in module %s", future.id, dep.id, m.moduleID))
		}
	}

	m.ids[future.id] = true
	m.futures = append(m.futures, future)
	return future
}

// BuildModule runs build once and returns the resulting module. Results
// must be futures registered by build.
func BuildModule(id string, build func(m *ModuleBuilder) map[string]*ContractFuture) *Module {
	builder := &ModuleBuilder{
		moduleID: id,
		ids:      make(map[string]bool),
	}
	results := build(builder)
	for name, future := range results {
		if future == nil || !builder.ids[future.id] || future.moduleID != id {
			panic(fmt.Sprintf("ignition: result %s of module %s is not one of its futures", name, id))
		}
	}
	return &Module{
		ID:      id,
		Futures: builder.futures,
		Results: results,
	}
}
