package ignition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownModule = errors.New("unknown module")

var modules = map[string]*Module{
	NTZCModule.ID: NTZCModule,
}

// Lookup returns a registered module by id.
func Lookup(id string) (*Module, error) {
	module, ok := modules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownModule, id, strings.Join(ModuleIDs(), ", "))
	}
	return module, nil
}

// ModuleIDs lists registered modules in alphabetical order.
func ModuleIDs() []string {
	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
