package scripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rxtech-lab/contract-deployer/internal/chain"
	"go.uber.org/zap"
)

var ErrUnknownScript = errors.New("unknown script")

// Env is what a script runs against.
type Env struct {
	Deployer *chain.Deployer
	// Out receives the script's printed results.
	Out io.Writer
	Log *zap.Logger
}

// Script is an imperative deployment routine.
type Script func(ctx context.Context, env *Env) error

var registry = map[string]Script{
	"deployTreasury": DeployTreasury,
}

// Lookup returns a registered script by name.
func Lookup(name string) (Script, error) {
	script, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownScript, name, strings.Join(Names(), ", "))
	}
	return script, nil
}

// Names lists registered scripts in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
