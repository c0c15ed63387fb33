package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/contract-deployer/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	t.Run("exactly two networks", func(t *testing.T) {
		assert.Equal(t, []string{"bscTestnet", "sepolia"}, cfg.NetworkNames())
		assert.Equal(t, uint64(97), cfg.Networks["bscTestnet"].ChainID)
		assert.Equal(t, uint64(11155111), cfg.Networks["sepolia"].ChainID)
	})

	t.Run("optimizer", func(t *testing.T) {
		assert.Equal(t, "0.8.25", cfg.Solidity.Version)
		assert.True(t, cfg.Solidity.Settings.Optimizer.Enabled)
		assert.Equal(t, 200, cfg.Solidity.Settings.Optimizer.Runs)
	})

	t.Run("gas parameters", func(t *testing.T) {
		bsc := cfg.Networks["bscTestnet"]
		assert.Equal(t, "https://bsc-testnet-rpc.publicnode.com", bsc.URL)
		assert.Equal(t, uint64(2100000), bsc.Gas)
		assert.Equal(t, uint64(200000000), bsc.GasPrice)

		sepolia := cfg.Networks["sepolia"]
		assert.Equal(t, "https://ethereum-sepolia-rpc.publicnode.com", sepolia.URL)
		assert.Zero(t, sepolia.Gas)
		assert.Zero(t, sepolia.GasPrice)
	})

	t.Run("accounts reference secrets", func(t *testing.T) {
		for _, network := range cfg.Networks {
			assert.Equal(t, []string{DefaultAccountVar}, network.Accounts)
		}
	})

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	store := secrets.MapStore{EtherscanAPIKeyVar: "api-key"}

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), store)
		require.NoError(t, err)
		assert.Equal(t, "api-key", cfg.Etherscan.APIKey)
		assert.Len(t, cfg.Networks, 2)
		assert.Equal(t, "sepolia", cfg.Networks["sepolia"].Name)
	})

	t.Run("missing api key fails the load", func(t *testing.T) {
		_, err := Load("", secrets.MapStore{})
		require.Error(t, err)
		assert.ErrorIs(t, err, secrets.ErrNotFound)
	})

	t.Run("file overrides solidity settings", func(t *testing.T) {
		path := writeConfig(t, `
solidity:
  version: 0.8.24
  settings:
    optimizer:
      enabled: false
      runs: 1000
`)
		cfg, err := Load(path, store)
		require.NoError(t, err)
		assert.Equal(t, "0.8.24", cfg.Solidity.Version)
		assert.False(t, cfg.Solidity.Settings.Optimizer.Enabled)
		assert.Equal(t, 1000, cfg.Solidity.Settings.Optimizer.Runs)
		assert.Len(t, cfg.Networks, 2)
	})

	t.Run("file adds network", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  localhost:
    url: http://127.0.0.1:8545
    chainId: 31337
    accounts: [LOCAL_KEY]
`)
		cfg, err := Load(path, store)
		require.NoError(t, err)
		local, err := cfg.Network("localhost")
		require.NoError(t, err)
		assert.Equal(t, "localhost", local.Name)
		assert.Equal(t, uint64(31337), local.ChainID)
		assert.Equal(t, []string{"LOCAL_KEY"}, local.Accounts)
	})

	t.Run("partial network override keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  bscTestnet:
    gasPrice: 1
`)
		cfg, err := Load(path, store)
		require.NoError(t, err)
		bsc, err := cfg.Network("bscTestnet")
		require.NoError(t, err)
		assert.Equal(t, "https://bsc-testnet-rpc.publicnode.com", bsc.URL)
		assert.Equal(t, uint64(97), bsc.ChainID)
		assert.Equal(t, uint64(2100000), bsc.Gas)
		assert.Equal(t, uint64(1), bsc.GasPrice)
		assert.Equal(t, []string{DefaultAccountVar}, bsc.Accounts)
		assert.Len(t, cfg.Networks, 2)
	})

	t.Run("literal private key is rejected", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  sepolia:
    url: https://ethereum-sepolia-rpc.publicnode.com
    chainId: 11155111
    accounts: ["0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"]
`)
		_, err := Load(path, store)
		assert.ErrorIs(t, err, ErrLiteralAccount)
	})

	t.Run("invalid network", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  broken:
    url: not a url
    chainId: 0
`)
		_, err := Load(path, store)
		assert.Error(t, err)
	})

	t.Run("custom api key variable", func(t *testing.T) {
		path := writeConfig(t, `
etherscan:
  apiKeyVar: BSCSCAN_API_KEY
`)
		cfg, err := Load(path, secrets.MapStore{"BSCSCAN_API_KEY": "bsc-key"})
		require.NoError(t, err)
		assert.Equal(t, "bsc-key", cfg.Etherscan.APIKey)
	})
}

func TestNetwork(t *testing.T) {
	cfg := Default()

	_, err := cfg.Network("mainnet")
	assert.ErrorIs(t, err, ErrUnknownNetwork)
	assert.Contains(t, err.Error(), "bscTestnet, sepolia")
}

func TestAccounts(t *testing.T) {
	cfg := Default()

	keys, err := cfg.Accounts("sepolia", secrets.MapStore{DefaultAccountVar: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabc"}, keys)

	_, err = cfg.Accounts("sepolia", secrets.MapStore{})
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	cfg.Networks["empty"] = NetworkProfile{Name: "empty", URL: "http://localhost:8545", ChainID: 1}
	_, err = cfg.Accounts("empty", secrets.MapStore{})
	assert.ErrorIs(t, err, ErrNoAccounts)
}
