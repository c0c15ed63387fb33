package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

var MaxUint256 = math.MaxBig256

func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// FormatEther renders a wei amount in ether with up to 18 decimals.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', 18)
}
