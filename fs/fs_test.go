package fs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCollectInputs(t *testing.T) {
	t.Parallel()

	t.Run("walks directories for supported formats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
		writeFile(t, dir, "a.md", "# A")
		writeFile(t, filepath.Join(dir, "nested"), "b.mdx", "# B")
		writeFile(t, dir, "notes.txt", "skipped")

		inputs, err := fs.CollectInputs([]string{dir})

		require.NoError(t, err)
		require.Len(t, inputs, 2)
		var paths []string
		for _, in := range inputs {
			paths = append(paths, filepath.Base(in.Path))
		}
		assert.ElementsMatch(t, []string{"a.md", "b.mdx"}, paths)
	})

	t.Run("explicit files are included regardless of extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "data.bin", "binary")

		inputs, err := fs.CollectInputs([]string{path})

		require.NoError(t, err)
		require.Len(t, inputs, 1)
		assert.Equal(t, path, inputs[0].Path)
		assert.Equal(t, []byte("binary"), inputs[0].Data)
	})

	t.Run("returns error for missing path", func(t *testing.T) {
		t.Parallel()

		_, err := fs.CollectInputs([]string{"/nonexistent/docs"})

		assert.Error(t, err)
	})
}

func TestWriteDocuments(t *testing.T) {
	t.Parallel()

	t.Run("writes indented JSON", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.json")
		docs := []*doclink.DocumentNode{{Path: "a.md", Title: "A"}}

		require.NoError(t, fs.WriteDocuments(path, docs))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title": "A"`)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "deep", "nested", "out.json")

		require.NoError(t, fs.WriteDocuments(path, nil))

		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.json")

		require.NoError(t, fs.WriteDocuments(path, []*doclink.DocumentNode{{Path: "a.md"}}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "out.json", entries[0].Name())
	})
}

func TestEncodeDocuments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	docs := []*doclink.DocumentNode{{
		Path: "a.md",
		Blocks: []*doclink.ContentBlock{
			{Kind: doclink.BlockCode, Content: "x := 1", Language: "go"},
		},
	}}

	require.NoError(t, fs.EncodeDocuments(&buf, docs))

	assert.Contains(t, buf.String(), `"kind": "code"`)
	assert.Contains(t, buf.String(), `"language": "go"`)
}
