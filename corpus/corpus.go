// Package corpus loads the document corpus handed to the context store at
// startup. The store only needs an ordered sequence of strings; this loader
// sources them from markdown files on disk.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every .md file directly under dir, in lexical filename
// order, and returns their contents. An unreadable file aborts the load; a
// directory without any markdown files is an error since the agent would
// have no context to retrieve.
func LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var texts []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
		}
		texts = append(texts, string(content))
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no markdown documents in %s", dir)
	}
	return texts, nil
}
