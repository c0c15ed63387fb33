package testutil

import (
	"encoding/json"

	"github.com/rxtech-lab/contract-deployer/internal/compiler"
)

// Hand assembled creation code for contracts used by deployment tests.
const (
	// StubBytecode deploys a one byte runtime (STOP).
	StubBytecode = "0x600060005360016000f3"
	// EmptyBytecode finishes without returning runtime code.
	EmptyBytecode = "0x00"
	// RevertBytecode reverts during construction.
	RevertBytecode = "0x60006000fd"

	// erc1967ProxyBytecode stores its first constructor word in the ERC1967
	// implementation slot.
	erc1967ProxyBytecode = "0x60206036600039600051" +
		"7f360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc55" +
		"600060005360016000f3"
	// transparentProxyBytecode additionally stores its second constructor
	// word in the ERC1967 admin slot.
	transparentProxyBytecode = "0x60206062600039600051" +
		"7f360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc55" +
		"60206082600039600051" +
		"7fb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d610355" +
		"600060005360016000f3"
)

const TreasuryABI = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[
		{"name":"token","type":"address"},
		{"name":"router","type":"address"},
		{"name":"owner","type":"address"},
		{"name":"feeRate","type":"uint256"},
		{"name":"feeRecipient","type":"address"}
	],"outputs":[]}
]`

const erc1967ProxyABI = `[
	{"type":"constructor","stateMutability":"payable","inputs":[
		{"name":"implementation","type":"address"},
		{"name":"_data","type":"bytes"}
	]}
]`

const transparentProxyABI = `[
	{"type":"constructor","stateMutability":"payable","inputs":[
		{"name":"_logic","type":"address"},
		{"name":"initialOwner","type":"address"},
		{"name":"_data","type":"bytes"}
	]}
]`

// Artifact builds an in-memory artifact.
func Artifact(name, abiJSON, bytecode string) compiler.Artifact {
	return compiler.Artifact{
		Format:       compiler.ArtifactFormat,
		ContractName: name,
		SourceName:   "contracts/" + name + ".sol",
		ABI:          json.RawMessage(abiJSON),
		Bytecode:     bytecode,
	}
}

// Artifacts returns a store with NTZC, Treasury and both proxy contracts.
func Artifacts() compiler.MemoryStore {
	return compiler.NewMemoryStore(
		Artifact("NTZC", `[]`, StubBytecode),
		Artifact("Treasury", TreasuryABI, StubBytecode),
		Artifact("ERC1967Proxy", erc1967ProxyABI, erc1967ProxyBytecode),
		Artifact("TransparentUpgradeableProxy", transparentProxyABI, transparentProxyBytecode),
	)
}
