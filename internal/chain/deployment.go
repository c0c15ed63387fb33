package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rxtech-lab/contract-deployer/internal/models"
	"go.uber.org/zap"
)

// Deployment is a contract whose creation transaction has been sent.
type Deployment struct {
	deployer *Deployer
	name     string
	kind     models.DeploymentKind
	address  common.Address
	tx       *types.Transaction
}

func (d *Deployment) Name() string {
	return d.name
}

// Address is known before the transaction is mined.
func (d *Deployment) Address() common.Address {
	return d.address
}

func (d *Deployment) Transaction() *types.Transaction {
	return d.tx
}

// WaitForDeployment blocks until the creation transaction is mined and code
// exists at the contract address. The wait ends early when ctx is done.
func (d *Deployment) WaitForDeployment(ctx context.Context) (*types.Receipt, error) {
	dep := d.deployer

	receipt, err := dep.waitMined(ctx, d.tx)
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		if hookErr := dep.notifyFailed(d.kind, d.tx); hookErr != nil {
			dep.log.Warn("failed to record failed deployment", zap.Error(hookErr))
		}
		return receipt, fmt.Errorf("%w: %s (tx %s)", ErrDeploymentReverted, d.name, d.tx.Hash().Hex())
	}

	code, err := dep.backend.CodeAt(ctx, d.address, nil)
	if err != nil {
		return receipt, fmt.Errorf("failed to get code at %s: %w", d.address.Hex(), err)
	}
	if len(code) == 0 {
		if hookErr := dep.notifyFailed(d.kind, d.tx); hookErr != nil {
			dep.log.Warn("failed to record failed deployment", zap.Error(hookErr))
		}
		return receipt, fmt.Errorf("%w: %s at %s", ErrNoCode, d.name, d.address.Hex())
	}

	if err := dep.notifyConfirmed(d.kind, d.tx, d.address); err != nil {
		return receipt, fmt.Errorf("failed to record confirmed deployment: %w", err)
	}

	dep.log.Info("contract deployed",
		zap.String("contract", d.name),
		zap.String("address", d.address.Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gasUsed", receipt.GasUsed))

	return receipt, nil
}

// IsTimeout reports whether err ended a wait because its context expired.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
