package utils

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsToStringMap(t *testing.T) {
	parsed := mustParseABI(t, treasuryABI)
	inputs := parsed.Methods["initialize"].Inputs

	t.Run("named inputs", func(t *testing.T) {
		result, err := ArgsToStringMap(inputs, []any{
			common.HexToAddress("0x3b22aF7D779f9F717D00380f3dCa2100bAf85EA5"),
			"0x52f64B42Ce258dC85bF8A7426f65dCA6978544C6",
			"0xC33d30353A66708cD2020ef1633797BD42724741",
			1,
			"0xC33d30353A66708cD2020ef1633797BD42724741",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"_admin":     "0x3b22aF7D779f9F717D00380f3dCa2100bAf85EA5",
			"_operator":  "0x52f64B42Ce258dC85bF8A7426f65dCA6978544C6",
			"_vault":     "0xC33d30353A66708cD2020ef1633797BD42724741",
			"_threshold": "1",
			"_guardian":  "0xC33d30353A66708cD2020ef1633797BD42724741",
		}, result)
	})

	t.Run("max uint256", func(t *testing.T) {
		unnamed := mustParseABI(t, `[{"type":"function","name":"f","inputs":[{"name":"","type":"uint256"},{"name":"","type":"bool"}],"outputs":[]}]`)
		result, err := ArgsToStringMap(unnamed.Methods["f"].Inputs, []any{new(big.Int).Set(MaxUint256), true})
		require.NoError(t, err)
		assert.Equal(t, "MAX_UINT256", result["arg0"])
		assert.Equal(t, "true", result["arg1"])
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		_, err := ArgsToStringMap(inputs, []any{"0x01"})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		result, err := ArgsToStringMap(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}
