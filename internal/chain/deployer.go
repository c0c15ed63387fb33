package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rxtech-lab/contract-deployer/internal/compiler"
	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/rxtech-lab/contract-deployer/internal/models"
	"github.com/rxtech-lab/contract-deployer/internal/services"
	"github.com/rxtech-lab/contract-deployer/internal/utils"
	"go.uber.org/zap"
)

const DefaultPollInterval = 2 * time.Second

var (
	ErrDeploymentReverted = errors.New("deployment transaction reverted")
	ErrNoCode             = errors.New("no contract code at deployed address")
	ErrInsufficientFunds  = errors.New("insufficient funds for deployment")
	ErrNoArtifactStore    = errors.New("deployer has no artifact store")
)

// Deployer sends contract creation transactions for one account on one
// network.
type Deployer struct {
	backend   Backend
	signer    *Signer
	profile   config.NetworkProfile
	chainID   *big.Int
	artifacts compiler.ArtifactStore
	records   services.DeploymentService
	hooks     services.HookService
	runID     string
	log       *zap.Logger
	interval  time.Duration

	mu sync.Mutex
}

type Option func(*Deployer)

func WithArtifacts(store compiler.ArtifactStore) Option {
	return func(d *Deployer) { d.artifacts = store }
}

// WithRecords persists every deployment through records and finalizes it
// through hooks once the transaction is mined.
func WithRecords(records services.DeploymentService, hooks services.HookService) Option {
	return func(d *Deployer) {
		d.records = records
		d.hooks = hooks
	}
}

func WithRunID(runID string) Option {
	return func(d *Deployer) { d.runID = runID }
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Deployer) { d.log = log }
}

func WithPollInterval(interval time.Duration) Option {
	return func(d *Deployer) { d.interval = interval }
}

// NewDeployer checks that backend serves profile's chain and returns a
// deployer sending from signer.
func NewDeployer(ctx context.Context, backend Backend, profile config.NetworkProfile, signer *Signer, opts ...Option) (*Deployer, error) {
	if err := VerifyChainID(ctx, backend, profile.ChainID); err != nil {
		return nil, err
	}
	d := &Deployer{
		backend:  backend,
		signer:   signer,
		profile:  profile,
		chainID:  new(big.Int).SetUint64(profile.ChainID),
		log:      zap.NewNop(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Deployer) Backend() Backend {
	return d.backend
}

func (d *Deployer) Network() config.NetworkProfile {
	return d.profile
}

func (d *Deployer) Address() common.Address {
	return d.signer.Address()
}

func (d *Deployer) RunID() string {
	return d.runID
}

func (d *Deployer) Logger() *zap.Logger {
	return d.log
}

// Records returns the deployment record service, or nil when deployments are
// not persisted.
func (d *Deployer) Records() services.DeploymentService {
	return d.records
}

// GetContractFactory resolves a compiled contract by name.
func (d *Deployer) GetContractFactory(name string) (*ContractFactory, error) {
	if d.artifacts == nil {
		return nil, ErrNoArtifactStore
	}
	artifact, err := d.artifacts.Load(name)
	if err != nil {
		return nil, err
	}
	return NewContractFactory(artifact)
}

type deployOptions struct {
	kind     models.DeploymentKind
	moduleID string
	futureID string
}

type DeployOption func(*deployOptions)

func AsKind(kind models.DeploymentKind) DeployOption {
	return func(o *deployOptions) { o.kind = kind }
}

// ForFuture tags the deployment record with the declarative module future
// that produced it.
func ForFuture(moduleID, futureID string) DeployOption {
	return func(o *deployOptions) {
		o.moduleID = moduleID
		o.futureID = futureID
	}
}

// Deploy sends the creation transaction for factory with constructor args.
// It returns as soon as the transaction is accepted by the node.
func (d *Deployer) Deploy(ctx context.Context, factory *ContractFactory, args []any, opts ...DeployOption) (*Deployment, error) {
	o := deployOptions{kind: models.DeploymentKindContract}
	for _, opt := range opts {
		opt(&o)
	}

	typedArgs, err := utils.CoerceArgs(factory.ABI.Constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", factory.Name, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	txOpts, err := d.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.checkBalance(ctx, txOpts); err != nil {
		return nil, err
	}

	d.log.Info("deploying contract",
		zap.String("contract", factory.Name),
		zap.String("network", d.profile.Name),
		zap.String("kind", string(o.kind)),
		zap.String("from", d.signer.Address().Hex()))

	address, tx, _, err := bind.DeployContract(txOpts, factory.ABI, factory.Bytecode, d.backend, typedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", factory.Name, err)
	}

	d.log.Info("deployment transaction sent",
		zap.String("contract", factory.Name),
		zap.String("address", address.Hex()),
		zap.String("tx", tx.Hash().Hex()))

	deployment := &Deployment{
		deployer: d,
		name:     factory.Name,
		kind:     o.kind,
		address:  address,
		tx:       tx,
	}
	if d.records == nil {
		return deployment, nil
	}

	// the transaction is already out; keep the handle and log enough to
	// recover the contract by hand
	if err := d.record(factory, o, typedArgs, address, tx); err != nil {
		d.log.Error("failed to record sent deployment",
			zap.String("contract", factory.Name),
			zap.String("address", address.Hex()),
			zap.String("tx", tx.Hash().Hex()),
			zap.Error(err))
		return deployment, fmt.Errorf("failed to record deployment of %s at %s (tx %s): %w",
			factory.Name, address.Hex(), tx.Hash().Hex(), err)
	}
	return deployment, nil
}

func (d *Deployer) record(factory *ContractFactory, o deployOptions, typedArgs []any, address common.Address, tx *types.Transaction) error {
	recordArgs, err := utils.ArgsToStringMap(factory.ABI.Constructor.Inputs, typedArgs)
	if err != nil {
		return err
	}
	return d.records.CreateDeployment(&models.Deployment{
		RunID:           d.runID,
		Network:         d.profile.Name,
		ChainID:         d.profile.ChainID,
		ModuleID:        o.moduleID,
		FutureID:        o.futureID,
		ContractName:    factory.Name,
		Kind:            o.kind,
		ContractAddress: address.Hex(),
		TransactionHash: tx.Hash().Hex(),
		DeployerAddress: d.signer.Address().Hex(),
		Args:            models.JSON(recordArgs),
		Status:          models.TransactionStatusPending,
	})
}

func (d *Deployer) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	txOpts, err := d.signer.TransactOpts(d.chainID)
	if err != nil {
		return nil, err
	}
	txOpts.Context = ctx
	if d.profile.Gas > 0 {
		txOpts.GasLimit = d.profile.Gas
	}
	if d.profile.GasPrice > 0 {
		txOpts.GasPrice = new(big.Int).SetUint64(d.profile.GasPrice)
	}
	return txOpts, nil
}

// checkBalance only applies when both gas limit and gas price are fixed.
func (d *Deployer) checkBalance(ctx context.Context, txOpts *bind.TransactOpts) error {
	if txOpts.GasLimit == 0 || txOpts.GasPrice == nil {
		return nil
	}
	balance, err := d.backend.BalanceAt(ctx, txOpts.From, nil)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	required := new(big.Int).Mul(new(big.Int).SetUint64(txOpts.GasLimit), txOpts.GasPrice)
	if balance.Cmp(required) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds,
			txOpts.From.Hex(), utils.FormatEther(balance), utils.FormatEther(required))
	}
	return nil
}

// waitMined polls for the receipt of tx until it is mined or ctx is done.
func (d *Deployer) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		receipt, err := d.backend.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			d.log.Debug("receipt lookup failed", zap.String("tx", tx.Hash().Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for transaction %s: %w", tx.Hash().Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *Deployer) notifyConfirmed(kind models.DeploymentKind, tx *types.Transaction, address common.Address) error {
	if d.hooks == nil {
		return nil
	}
	return d.hooks.OnTransactionConfirmed(kind, tx.Hash().Hex(), address.Hex())
}

func (d *Deployer) notifyFailed(kind models.DeploymentKind, tx *types.Transaction) error {
	if d.hooks == nil {
		return nil
	}
	return d.hooks.OnTransactionFailed(kind, tx.Hash().Hex())
}
