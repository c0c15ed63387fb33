package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/rxtech-lab/solc-go"
)

// ErrCompilation is returned when solc reports at least one error.
var ErrCompilation = errors.New("compilation failed")

// Result holds the artifacts of one compiler run, keyed by source name and
// contract name, plus any warnings solc reported.
type Result struct {
	Artifacts []Artifact
	Warnings  []string
}

// Compiler compiles Solidity sources with fixed settings.
type Compiler struct {
	settings config.Solidity
	// root is the project directory; non-source imports such as
	// @openzeppelin/... resolve against root and root/node_modules.
	root string
}

func New(settings config.Solidity, root string) *Compiler {
	return &Compiler{settings: settings, root: root}
}

// LoadSources reads every .sol file below dir. Source names are slash
// separated paths relative to the compiler root.
func (c *Compiler) LoadSources(dir string) (map[string]string, error) {
	sources := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sol" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name, err := filepath.Rel(c.root, path)
		if err != nil {
			name = path
		}
		sources[filepath.ToSlash(name)] = string(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sources from %s: %w", dir, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no solidity sources found in %s", dir)
	}
	return sources, nil
}

// Compile compiles the given sources and returns one artifact per contract,
// including contracts of imported files.
func (c *Compiler) Compile(sources map[string]string) (Result, error) {
	compiler, err := solc.NewWithVersion(c.settings.Version)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load solc %s: %w", c.settings.Version, err)
	}

	input := &solc.Input{
		Language: "Solidity",
		Sources:  make(map[string]solc.SourceIn, len(sources)),
		Settings: solc.Settings{
			Optimizer: solc.Optimizer{
				Enabled: c.settings.Settings.Optimizer.Enabled,
				Runs:    c.settings.Settings.Optimizer.Runs,
			},
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}
	for name, content := range sources {
		input.Sources[name] = solc.SourceIn{Content: content}
	}

	opts := solc.CompileOptions{
		ImportCallback: c.resolveImport,
	}
	output, err := compiler.CompileWithOptions(input, &opts)
	if err != nil {
		return Result{}, err
	}

	var result Result
	var failures []string
	for _, e := range output.Errors {
		message := strings.TrimSpace(e.FormattedMessage)
		if message == "" {
			message = e.Message
		}
		if e.Severity == "error" {
			failures = append(failures, message)
			continue
		}
		result.Warnings = append(result.Warnings, message)
	}
	if len(failures) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrCompilation, strings.Join(failures, "\n"))
	}

	// imported sources get artifacts too; proxies come from @openzeppelin
	for sourceName, contracts := range output.Contracts {
		for contractName, contract := range contracts {
			abiJSON, err := json.Marshal(contract.ABI)
			if err != nil {
				return Result{}, fmt.Errorf("failed to marshal ABI of %s: %w", contractName, err)
			}
			result.Artifacts = append(result.Artifacts, Artifact{
				Format:       ArtifactFormat,
				ContractName: contractName,
				SourceName:   sourceName,
				ABI:          abiJSON,
				Bytecode:     withHexPrefix(contract.EVM.Bytecode.Object),
			})
		}
	}
	sort.Slice(result.Artifacts, func(i, j int) bool {
		if result.Artifacts[i].SourceName != result.Artifacts[j].SourceName {
			return result.Artifacts[i].SourceName < result.Artifacts[j].SourceName
		}
		return result.Artifacts[i].ContractName < result.Artifacts[j].ContractName
	})

	return result, nil
}

func (c *Compiler) resolveImport(u string) solc.ImportResult {
	candidates := []string{filepath.Join(c.root, filepath.FromSlash(u))}
	if strings.HasPrefix(u, "@") {
		candidates = append([]string{filepath.Join(c.root, "node_modules", filepath.FromSlash(u))}, candidates...)
	}

	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err == nil {
			return solc.ImportResult{Contents: string(content)}
		}
	}

	return solc.ImportResult{
		Error: fmt.Sprintf("Import %s not found", u),
	}
}

func withHexPrefix(s string) string {
	if s == "" || strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}
