package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rxtech-lab/contract-deployer/internal/config"
)

var ErrChainIDMismatch = errors.New("chain id mismatch")

// Backend is the node API the deployer needs. *ethclient.Client and the
// go-ethereum simulated client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

// Dial connects to the RPC endpoint of profile and checks that the node
// serves the configured chain.
func Dial(ctx context.Context, profile config.NetworkProfile) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, profile.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", profile.Name, err)
	}
	if err := VerifyChainID(ctx, client, profile.ChainID); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// VerifyChainID fails with ErrChainIDMismatch when the node reports a
// different chain than expected.
func VerifyChainID(ctx context.Context, backend Backend, expected uint64) error {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != expected {
		return fmt.Errorf("%w: node reports %s, configuration expects %d", ErrChainIDMismatch, chainID, expected)
	}
	return nil
}
