package doclink

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported source document format.
type Format string

// Supported document formats.
const (
	FormatMarkdown Format = "markdown"
)

// FormatForPath routes a file path to a Format based on its extension.
// Returns EUNSUPPORTED for anything outside the supported set; callers skip
// such documents and continue with the rest of the run.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".mdx":
		return FormatMarkdown, nil
	}
	return "", Errorf(EUNSUPPORTED, "unsupported document format %q", ext)
}

// Parser converts raw document bytes into a document tree.
type Parser interface {
	// Parse builds the tree for the document identified by path. Parsing is
	// deterministic and pure. When structural markers cannot be resolved
	// (e.g. an unterminated code fence) Parse returns a best-effort tree
	// with Partial set alongside an EMALFORMED error; callers keep the tree
	// rather than losing the document.
	Parse(data []byte, path string) (*DocumentNode, error)
}
