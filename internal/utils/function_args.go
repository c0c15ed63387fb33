package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ArgsToStringMap maps argument names to printable values, for storing
// alongside a deployment record. Unnamed inputs are keyed arg0, arg1, ...
// A value equal to MAX_UINT256 is written as the literal "MAX_UINT256".
// Example usage:
//
//	args = [ownerAddress, 1]
//	inputs = initialize(address _admin, uint256 _threshold)
//	output = {"_admin": "0x1234567890123456789012345678901234567890", "_threshold": "1"}
func ArgsToStringMap(inputs abi.Arguments, args []any) (map[string]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	result := make(map[string]any, len(args))
	for i, arg := range args {
		argName := inputs[i].Name
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}
		result[argName] = formatArgValue(arg)
	}
	return result, nil
}

// formatArgValue formats an argument value to string, with special handling for MAX_UINT256
func formatArgValue(arg any) string {
	switch v := arg.(type) {
	case string:
		if v == MaxUint256.String() {
			return "MAX_UINT256"
		}
		return v
	case *big.Int:
		if v.Cmp(MaxUint256) == 0 {
			return "MAX_UINT256"
		}
		return v.String()
	case common.Address:
		return v.Hex()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
