package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "@openzeppelin", "contracts", "proxy", "utils", "Initializable.sol"),
		"pragma solidity ^0.8.20;\nabstract contract Initializable {}\n")
	writeFile(t, filepath.Join(root, "contracts", "lib", "Math.sol"),
		"pragma solidity ^0.8.20;\nlibrary Math {}\n")

	sources := map[string]string{
		"contracts/Treasury.sol": `pragma solidity ^0.8.25;
import "@openzeppelin/contracts/proxy/utils/Initializable.sol";
import {Math} from "./lib/Math.sol";
contract Treasury is Initializable {}
`,
	}

	c := New(config.Default().Solidity, root)
	all, err := c.WithImports(sources)
	require.NoError(t, err)

	assert.Len(t, all, 3)
	assert.Contains(t, all, "contracts/Treasury.sol")
	assert.Contains(t, all["@openzeppelin/contracts/proxy/utils/Initializable.sol"], "abstract contract Initializable")
	assert.Contains(t, all["contracts/lib/Math.sol"], "library Math")
}

func TestWithImportsMissing(t *testing.T) {
	c := New(config.Default().Solidity, t.TempDir())
	_, err := c.WithImports(map[string]string{
		"contracts/A.sol": `import "@openzeppelin/contracts/access/Ownable.sol";`,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Ownable.sol")
}

func TestResolveImportPath(t *testing.T) {
	assert.Equal(t, "contracts/lib/Math.sol", resolveImportPath("contracts/Treasury.sol", "./lib/Math.sol"))
	assert.Equal(t, "lib/Math.sol", resolveImportPath("contracts/Treasury.sol", "../lib/Math.sol"))
	assert.Equal(t, "@openzeppelin/contracts/token/ERC20/ERC20.sol",
		resolveImportPath("contracts/Treasury.sol", "@openzeppelin/contracts/token/ERC20/ERC20.sol"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
