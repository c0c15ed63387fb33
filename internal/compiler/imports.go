package compiler

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var importPattern = regexp.MustCompile(`(?m)^\s*import\s+(?:[^"';]*\s+from\s+)?["']([^"']+)["']`)

// WithImports returns sources plus every file they import, transitively,
// keyed by the source name solc sees. Verification services need the
// complete set.
func (c *Compiler) WithImports(sources map[string]string) (map[string]string, error) {
	all := make(map[string]string, len(sources))
	queue := make([]string, 0, len(sources))
	for name, content := range sources {
		all[name] = content
		queue = append(queue, name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, match := range importPattern.FindAllStringSubmatch(all[name], -1) {
			imported := resolveImportPath(name, match[1])
			if _, ok := all[imported]; ok {
				continue
			}
			result := c.resolveImport(imported)
			if result.Error != "" {
				return nil, fmt.Errorf("%s: %s", name, result.Error)
			}
			all[imported] = result.Contents
			queue = append(queue, imported)
		}
	}
	return all, nil
}

// resolveImportPath turns an import path into a source name. Relative
// imports are resolved against the importing source.
func resolveImportPath(from, imported string) string {
	if strings.HasPrefix(imported, "./") || strings.HasPrefix(imported, "../") {
		return path.Join(path.Dir(from), imported)
	}
	return imported
}
