package testutil

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/stretchr/testify/require"
)

// SimulatedChainID is the chain id of the go-ethereum simulated backend.
const SimulatedChainID = 1337

// SimulatedChain is an in-process chain with one funded account.
type SimulatedChain struct {
	Backend *simulated.Backend
	Client  simulated.Client
	Key     *ecdsa.PrivateKey
	Address common.Address
	Profile config.NetworkProfile
}

// NewSimulatedChain starts a simulated chain that is closed on test cleanup.
func NewSimulatedChain(t *testing.T) *SimulatedChain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		address: {Balance: balance},
	})
	t.Cleanup(func() { _ = backend.Close() })

	return &SimulatedChain{
		Backend: backend,
		Client:  backend.Client(),
		Key:     key,
		Address: address,
		Profile: config.NetworkProfile{
			Name:    "simulated",
			URL:     "http://127.0.0.1:8545",
			ChainID: SimulatedChainID,
		},
	}
}

// AutoCommit mines a block every interval until the test ends.
func (c *SimulatedChain) AutoCommit(t *testing.T, interval time.Duration) {
	t.Helper()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.Backend.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		<-stopped
	})
}

// PrivateKeyHex returns the funded account key without 0x prefix.
func (c *SimulatedChain) PrivateKeyHex() string {
	return common.Bytes2Hex(crypto.FromECDSA(c.Key))
}
