package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/rxtech-lab/contract-deployer/internal/compiler"
)

// ContractFactory can deploy new instances of one compiled contract.
type ContractFactory struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// NewContractFactory decodes the ABI and bytecode of artifact.
func NewContractFactory(artifact compiler.Artifact) (*ContractFactory, error) {
	parsedABI, err := artifact.ParsedABI()
	if err != nil {
		return nil, err
	}
	bytecode, err := artifact.BytecodeBytes()
	if err != nil {
		return nil, err
	}
	return &ContractFactory{
		Name:     artifact.ContractName,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}, nil
}
