package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const ArtifactFormat = "deployer-sol-artifact-1"

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrAmbiguousArtifact = errors.New("artifact name is ambiguous")
)

// Artifact is a compiled contract as stored on disk.
type Artifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// ParsedABI decodes the artifact ABI.
func (a Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	return parsed, nil
}

// BytecodeBytes decodes the creation bytecode.
func (a Artifact) BytecodeBytes() ([]byte, error) {
	if a.Bytecode == "" || a.Bytecode == "0x" {
		return nil, fmt.Errorf("%s has no bytecode (abstract contract or interface?)", a.ContractName)
	}
	code, err := hexutil.Decode(withHexPrefix(a.Bytecode))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", a.ContractName, err)
	}
	return code, nil
}

// ArtifactStore resolves compiled contracts by name.
type ArtifactStore interface {
	Load(contractName string) (Artifact, error)
}

type fileStore struct {
	dir string
}

// NewFileStore returns an ArtifactStore reading <dir>/<source>/<Name>.json.
func NewFileStore(dir string) ArtifactStore {
	return &fileStore{dir: dir}
}

// Load finds the artifact of contractName. Contracts of the same name in
// two sources can be told apart with "path/To.sol:Name".
func (s *fileStore) Load(contractName string) (Artifact, error) {
	sourceName, name := "", contractName
	if i := strings.LastIndex(contractName, ":"); i >= 0 {
		sourceName, name = contractName[:i], contractName[i+1:]
	}

	var matches []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != name+".json" {
			return nil
		}
		if sourceName != "" {
			rel, err := filepath.Rel(s.dir, filepath.Dir(path))
			if err != nil || filepath.ToSlash(rel) != sourceName {
				return nil
			}
		}
		matches = append(matches, path)
		return nil
	})
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(matches) == 0) {
		return Artifact{}, fmt.Errorf("%w: %s (run compile first)", ErrArtifactNotFound, contractName)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to search artifacts: %w", err)
	}
	if len(matches) > 1 {
		return Artifact{}, fmt.Errorf("%w: %s matches %s", ErrAmbiguousArtifact, contractName, strings.Join(matches, ", "))
	}

	content, err := os.ReadFile(matches[0])
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return Artifact{}, fmt.Errorf("failed to decode artifact %s: %w", matches[0], err)
	}
	return artifact, nil
}

// WriteArtifacts stores every artifact below dir and returns the written paths.
func WriteArtifacts(dir string, artifacts []Artifact) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		target := filepath.Join(dir, filepath.FromSlash(artifact.SourceName), artifact.ContractName+".json")
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory: %w", err)
		}
		content, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode artifact %s: %w", artifact.ContractName, err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write artifact %s: %w", target, err)
		}
		paths = append(paths, target)
	}
	return paths, nil
}

// MemoryStore serves artifacts held in memory, keyed by contract name.
type MemoryStore map[string]Artifact

// NewMemoryStore indexes artifacts by contract name.
func NewMemoryStore(artifacts ...Artifact) MemoryStore {
	store := make(MemoryStore, len(artifacts))
	for _, artifact := range artifacts {
		store[artifact.ContractName] = artifact
	}
	return store
}

func (m MemoryStore) Load(contractName string) (Artifact, error) {
	artifact, ok := m[contractName]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, contractName)
	}
	return artifact, nil
}
