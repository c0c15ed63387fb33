package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/rxtech-lab/contract-deployer/internal/config"
)

// longVersions maps release versions to the full build string block
// explorers expect.
var longVersions = map[string]string{
	"0.8.19": "v0.8.19+commit.7dd6d404",
	"0.8.20": "v0.8.20+commit.a1b79de6",
	"0.8.21": "v0.8.21+commit.d9974bed",
	"0.8.22": "v0.8.22+commit.4fc1097e",
	"0.8.23": "v0.8.23+commit.f704f362",
	"0.8.24": "v0.8.24+commit.e11b9ed9",
	"0.8.25": "v0.8.25+commit.b61c2a91",
	"0.8.26": "v0.8.26+commit.8a97fa7a",
	"0.8.27": "v0.8.27+commit.40a35a09",
	"0.8.28": "v0.8.28+commit.7893614a",
}

// LongVersion returns the full solc build string for version.
func LongVersion(version string) (string, error) {
	long, ok := longVersions[version]
	if !ok {
		return "", fmt.Errorf("unknown solc build for version %s", version)
	}
	return long, nil
}

type standardInput struct {
	Language string                    `json:"language"`
	Sources  map[string]standardSource `json:"sources"`
	Settings standardSettings          `json:"settings"`
}

type standardSource struct {
	Content string `json:"content"`
}

type standardSettings struct {
	Optimizer       standardOptimizer              `json:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type standardOptimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// StandardInput renders solc standard-JSON input for sources compiled with
// settings, as submitted to source verification services.
func StandardInput(settings config.Solidity, sources map[string]string) ([]byte, error) {
	input := standardInput{
		Language: "Solidity",
		Sources:  make(map[string]standardSource, len(sources)),
		Settings: standardSettings{
			Optimizer: standardOptimizer{
				Enabled: settings.Settings.Optimizer.Enabled,
				Runs:    settings.Settings.Optimizer.Runs,
			},
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}
	for name, content := range sources {
		input.Sources[name] = standardSource{Content: content}
	}
	return json.Marshal(input)
}
