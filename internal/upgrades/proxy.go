package upgrades

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rxtech-lab/contract-deployer/internal/chain"
	"github.com/rxtech-lab/contract-deployer/internal/models"
	"github.com/rxtech-lab/contract-deployer/internal/utils"
	"go.uber.org/zap"
)

type Kind string

const (
	KindTransparent Kind = "transparent"
	KindUUPS        Kind = "uups"
)

const (
	DefaultInitializer = "initialize"

	TransparentProxyContract = "TransparentUpgradeableProxy"
	ERC1967ProxyContract     = "ERC1967Proxy"
)

var (
	ErrUnknownKind            = errors.New("unknown proxy kind")
	ErrUnknownInitializer     = errors.New("initializer not found in contract ABI")
	ErrImplementationMismatch = errors.New("proxy does not point at the deployed implementation")
)

// Options controls how DeployProxy builds the proxy. The zero value deploys a
// transparent proxy owned by the deployer and calls initialize.
type Options struct {
	Kind Kind
	// Initializer is the function called through the proxy on construction.
	Initializer string
	// SkipInitializer deploys the proxy with empty initialization data.
	SkipInitializer bool
	// InitialOwner owns the proxy admin of a transparent proxy.
	InitialOwner common.Address
	// ProxyContract overrides the proxy artifact name.
	ProxyContract string
}

func (o Options) withDefaults(deployer *chain.Deployer) (Options, error) {
	if o.Kind == "" {
		o.Kind = KindTransparent
	}
	if o.Initializer == "" {
		o.Initializer = DefaultInitializer
	}
	if o.InitialOwner == (common.Address{}) {
		o.InitialOwner = deployer.Address()
	}
	if o.ProxyContract == "" {
		switch o.Kind {
		case KindTransparent:
			o.ProxyContract = TransparentProxyContract
		case KindUUPS:
			o.ProxyContract = ERC1967ProxyContract
		}
	}
	if o.Kind != KindTransparent && o.Kind != KindUUPS {
		return o, fmt.Errorf("%w: %s", ErrUnknownKind, o.Kind)
	}
	return o, nil
}

// ProxyDeployment is an implementation plus the proxy delegating to it.
type ProxyDeployment struct {
	deployer       *chain.Deployer
	proxy          *chain.Deployment
	implementation common.Address
}

// Address of the proxy, the address users interact with.
func (p *ProxyDeployment) Address() common.Address {
	return p.proxy.Address()
}

func (p *ProxyDeployment) Implementation() common.Address {
	return p.implementation
}

func (p *ProxyDeployment) Transaction() *types.Transaction {
	return p.proxy.Transaction()
}

// WaitForDeployment waits for the proxy transaction and checks that the
// proxy's implementation slot holds the deployed implementation.
func (p *ProxyDeployment) WaitForDeployment(ctx context.Context) (*types.Receipt, error) {
	receipt, err := p.proxy.WaitForDeployment(ctx)
	if err != nil {
		return receipt, err
	}

	implementation, err := ImplementationAddress(ctx, p.deployer.Backend(), p.Address())
	if err != nil {
		return receipt, err
	}
	if implementation != p.implementation {
		return receipt, fmt.Errorf("%w: slot holds %s, deployed %s", ErrImplementationMismatch, implementation.Hex(), p.implementation.Hex())
	}

	if records := p.deployer.Records(); records != nil {
		if err := records.SetImplementationAddress(p.Transaction().Hash().Hex(), implementation.Hex()); err != nil {
			return receipt, fmt.Errorf("failed to record implementation address: %w", err)
		}
	}
	return receipt, nil
}

// DeployProxy deploys factory as an implementation contract, waits for it,
// then deploys a proxy whose constructor calls the initializer with
// initArgs. It returns once the proxy transaction is sent.
func DeployProxy(ctx context.Context, deployer *chain.Deployer, factory *chain.ContractFactory, initArgs []any, opts Options) (*ProxyDeployment, error) {
	opts, err := opts.withDefaults(deployer)
	if err != nil {
		return nil, err
	}

	var data []byte
	if !opts.SkipInitializer {
		if _, ok := factory.ABI.Methods[opts.Initializer]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownInitializer, factory.Name, opts.Initializer)
		}
		data, err = utils.EncodeFunctionCall(factory.ABI, opts.Initializer, initArgs)
		if err != nil {
			return nil, fmt.Errorf("invalid initializer arguments for %s: %w", factory.Name, err)
		}
	}

	proxyFactory, err := deployer.GetContractFactory(opts.ProxyContract)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxy contract: %w", err)
	}

	implementation, err := deployer.Deploy(ctx, factory, nil, chain.AsKind(models.DeploymentKindImplementation))
	if err != nil {
		return nil, err
	}
	if _, err := implementation.WaitForDeployment(ctx); err != nil {
		return nil, err
	}

	var proxyArgs []any
	switch opts.Kind {
	case KindTransparent:
		proxyArgs = []any{implementation.Address(), opts.InitialOwner, data}
	case KindUUPS:
		proxyArgs = []any{implementation.Address(), data}
	}

	deployer.Logger().Info("deploying proxy",
		zap.String("contract", factory.Name),
		zap.String("kind", string(opts.Kind)),
		zap.String("implementation", implementation.Address().Hex()))

	proxy, err := deployer.Deploy(ctx, proxyFactory, proxyArgs, chain.AsKind(models.DeploymentKindProxy))
	if err != nil {
		return nil, err
	}

	return &ProxyDeployment{
		deployer:       deployer,
		proxy:          proxy,
		implementation: implementation.Address(),
	}, nil
}
