package upgrades

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/contract-deployer/internal/chain"
)

// ERC1967 storage slots, keccak256("eip1967.proxy.<name>") - 1.
var (
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	AdminSlot          = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
)

// ImplementationAddress reads the logic contract address of proxy.
func ImplementationAddress(ctx context.Context, backend chain.Backend, proxy common.Address) (common.Address, error) {
	return readAddressSlot(ctx, backend, proxy, ImplementationSlot)
}

// AdminAddress reads the admin of a transparent proxy. It is the zero
// address for UUPS proxies.
func AdminAddress(ctx context.Context, backend chain.Backend, proxy common.Address) (common.Address, error) {
	return readAddressSlot(ctx, backend, proxy, AdminSlot)
}

func readAddressSlot(ctx context.Context, backend chain.Backend, proxy common.Address, slot common.Hash) (common.Address, error) {
	value, err := backend.StorageAt(ctx, proxy, slot, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read slot %s of %s: %w", slot.Hex(), proxy.Hex(), err)
	}
	return common.BytesToAddress(value), nil
}
