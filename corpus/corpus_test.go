package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirOrderedMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_faq.md", "faq")
	writeFile(t, dir, "a_guide.md", "guide")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	texts, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide", "faq"}, texts, "lexical filename order, markdown only")
}

func TestLoadDirEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "not markdown")

	_, err := LoadDir(dir)
	assert.ErrorContains(t, err, "no markdown documents")
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "reading corpus directory")
}
