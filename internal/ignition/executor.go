package ignition

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/contract-deployer/internal/chain"
	"go.uber.org/zap"
)

// Result holds the deployed addresses of a module.
type Result struct {
	ModuleID string
	// Addresses by future ID, in deployment order in Futures.
	Addresses map[string]common.Address
	Futures   []string
	// Contracts by the result names the module exposes.
	Contracts map[string]common.Address
	// Reused lists futures that were already deployed on the chain.
	Reused []string
}

// Executor deploys modules through a chain deployer.
type Executor struct {
	deployer *chain.Deployer
}

func NewExecutor(deployer *chain.Deployer) *Executor {
	return &Executor{deployer: deployer}
}

// Deploy deploys the futures of module in registration order, waiting for
// each one. A future with a confirmed deployment record on the same chain is
// reused as long as its code is still there.
func (e *Executor) Deploy(ctx context.Context, module *Module) (*Result, error) {
	log := e.deployer.Logger().With(zap.String("module", module.ID))
	result := &Result{
		ModuleID:  module.ID,
		Addresses: make(map[string]common.Address, len(module.Futures)),
		Contracts: make(map[string]common.Address, len(module.Results)),
	}

	for _, future := range module.Futures {
		address, reused, err := e.reuse(ctx, future)
		if err != nil {
			return nil, err
		}

		if reused {
			log.Info("reusing deployed future", zap.String("future", future.ID()), zap.String("address", address.Hex()))
			result.Reused = append(result.Reused, future.ID())
		} else {
			address, err = e.deployFuture(ctx, future, result.Addresses)
			if err != nil {
				return nil, fmt.Errorf("failed to deploy %s: %w", future.ID(), err)
			}
		}

		result.Addresses[future.ID()] = address
		result.Futures = append(result.Futures, future.ID())
	}

	for name, future := range module.Results {
		result.Contracts[name] = result.Addresses[future.ID()]
	}
	return result, nil
}

func (e *Executor) reuse(ctx context.Context, future *ContractFuture) (common.Address, bool, error) {
	records := e.deployer.Records()
	if records == nil {
		return common.Address{}, false, nil
	}

	record, err := records.FindConfirmedFuture(e.deployer.Network().ChainID, future.ModuleID(), future.ID())
	if err != nil {
		return common.Address{}, false, fmt.Errorf("failed to look up %s: %w", future.ID(), err)
	}
	if record == nil {
		return common.Address{}, false, nil
	}

	address := common.HexToAddress(record.ContractAddress)
	code, err := e.deployer.Backend().CodeAt(ctx, address, nil)
	if err != nil {
		return common.Address{}, false, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		e.deployer.Logger().Warn("recorded deployment has no code, deploying again",
			zap.String("future", future.ID()), zap.String("address", address.Hex()))
		return common.Address{}, false, nil
	}
	return address, true, nil
}

func (e *Executor) deployFuture(ctx context.Context, future *ContractFuture, deployed map[string]common.Address) (common.Address, error) {
	factory, err := e.deployer.GetContractFactory(future.ContractName)
	if err != nil {
		return common.Address{}, err
	}

	args := make([]any, len(future.Args))
	for i, arg := range future.Args {
		if dep, ok := arg.(*ContractFuture); ok {
			args[i] = deployed[dep.ID()]
			continue
		}
		args[i] = arg
	}

	deployment, err := e.deployer.Deploy(ctx, factory, args, chain.ForFuture(future.ModuleID(), future.ID()))
	if err != nil {
		return common.Address{}, err
	}
	if _, err := deployment.WaitForDeployment(ctx); err != nil {
		return common.Address{}, err
	}
	return deployment.Address(), nil
}
