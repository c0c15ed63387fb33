package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/contract-deployer/internal/secrets"
	"gopkg.in/yaml.v3"
)

const (
	// EtherscanAPIKeyVar names the secret holding the verification API key.
	EtherscanAPIKeyVar = "ETHERSCAN_API_KEY"
	// DefaultAccountVar names the secret holding the default signing key.
	DefaultAccountVar = "DEPLOYER_PRIVATE_KEY"
	// DefaultFile is the configuration file looked up in the working directory.
	DefaultFile = "deployer.yaml"
)

var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrNoAccounts     = errors.New("network has no accounts configured")
	ErrLiteralAccount = errors.New("accounts must name a secret, not contain a private key")
)

// Config is the build configuration shared by every deployment command.
type Config struct {
	Solidity  Solidity                  `yaml:"solidity"`
	Networks  map[string]NetworkProfile `yaml:"networks" validate:"required,min=1,dive"`
	Etherscan Etherscan                 `yaml:"etherscan"`
	Paths     Paths                     `yaml:"paths"`
}

type Solidity struct {
	Version  string   `yaml:"version" validate:"required"`
	Settings Settings `yaml:"settings"`
}

type Settings struct {
	Optimizer Optimizer `yaml:"optimizer"`
}

type Optimizer struct {
	Enabled bool `yaml:"enabled"`
	Runs    int  `yaml:"runs" validate:"gte=0"`
}

// NetworkProfile describes one target network. Accounts holds secret names
// that resolve to hex private keys. Gas and GasPrice are optional; zero
// means the value is estimated from the node.
type NetworkProfile struct {
	Name     string   `yaml:"-"`
	URL      string   `yaml:"url" validate:"required,url"`
	ChainID  uint64   `yaml:"chainId" validate:"required,gt=0"`
	Accounts []string `yaml:"accounts"`
	Gas      uint64   `yaml:"gas"`
	GasPrice uint64   `yaml:"gasPrice"`
}

type Etherscan struct {
	APIKey string `yaml:"-"`
	// APIKeyVar overrides the secret name the API key is read from.
	APIKeyVar string `yaml:"apiKeyVar"`
}

type Paths struct {
	Sources   string `yaml:"sources" validate:"required"`
	Artifacts string `yaml:"artifacts" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solidity: Solidity{
			Version: "0.8.25",
			Settings: Settings{
				Optimizer: Optimizer{
					Enabled: true,
					Runs:    200,
				},
			},
		},
		Networks: map[string]NetworkProfile{
			"bscTestnet": {
				Name:     "bscTestnet",
				URL:      "https://bsc-testnet-rpc.publicnode.com",
				ChainID:  97,
				Accounts: []string{DefaultAccountVar},
				Gas:      2100000,
				GasPrice: 200000000,
			},
			"sepolia": {
				Name:     "sepolia",
				URL:      "https://ethereum-sepolia-rpc.publicnode.com",
				ChainID:  11155111,
				Accounts: []string{DefaultAccountVar},
			},
		},
		Etherscan: Etherscan{
			APIKeyVar: EtherscanAPIKeyVar,
		},
		Paths: Paths{
			Sources:   "contracts",
			Artifacts: "artifacts",
		},
	}
}

// Load builds the configuration from the defaults, an optional YAML file at
// path and the secret store. A missing file is not an error; a missing
// verification API key is.
func Load(path string, store secrets.Store) (*Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := decode(content, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	for name, network := range cfg.Networks {
		network.Name = name
		cfg.Networks[name] = network
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiKey, err := store.Get(cfg.Etherscan.APIKeyVar)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve etherscan api key: %w", err)
	}
	cfg.Etherscan.APIKey = apiKey

	return cfg, nil
}

// decode applies a YAML document over cfg. A network entry only overrides
// the keys it sets, so a profile that already exists keeps its other fields.
func decode(content []byte, cfg *Config) error {
	var overlay struct {
		Networks map[string]yaml.Node `yaml:"networks"`
	}
	if err := yaml.Unmarshal(content, &overlay); err != nil {
		return err
	}

	networks := make(map[string]NetworkProfile, len(cfg.Networks)+len(overlay.Networks))
	for name, profile := range cfg.Networks {
		networks[name] = profile
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return err
	}

	for name, node := range overlay.Networks {
		profile := networks[name]
		if err := node.Decode(&profile); err != nil {
			return fmt.Errorf("network %s: %w", name, err)
		}
		networks[name] = profile
	}
	cfg.Networks = networks
	return nil
}

// Validate checks the configuration shape.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Etherscan.APIKeyVar == "" {
		return errors.New("invalid configuration: etherscan.apiKeyVar is empty")
	}
	for name, network := range c.Networks {
		for _, account := range network.Accounts {
			if looksLikePrivateKey(account) {
				return fmt.Errorf("network %s: %w", name, ErrLiteralAccount)
			}
		}
	}
	return nil
}

// Network returns the profile registered under name.
func (c *Config) Network(name string) (NetworkProfile, error) {
	network, ok := c.Networks[name]
	if !ok {
		return NetworkProfile{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownNetwork, name, strings.Join(c.NetworkNames(), ", "))
	}
	return network, nil
}

// NetworkNames returns the configured network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accounts resolves the private keys of a network from the secret store.
func (c *Config) Accounts(network string, store secrets.Store) ([]string, error) {
	profile, err := c.Network(network)
	if err != nil {
		return nil, err
	}
	if len(profile.Accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, network)
	}

	keys := make([]string, 0, len(profile.Accounts))
	for _, name := range profile.Accounts {
		key, err := store.Get(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve account for %s: %w", network, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func looksLikePrivateKey(value string) bool {
	if !strings.HasPrefix(value, "0x") {
		value = "0x" + value
	}
	decoded, err := hexutil.Decode(value)
	return err == nil && len(decoded) == 32
}
