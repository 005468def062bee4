// Package fs provides file-based input and output for linking runs.
package fs

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/pipeline"
)

// CollectInputs reads the documents under the given paths. Directories are
// walked recursively for files in a supported format; files named explicitly
// are read as-is and routed by extension during the run, so that naming an
// unsupported file yields a visible skip instead of silence.
func CollectInputs(paths []string) ([]pipeline.Input, error) {
	var inputs []pipeline.Input
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, pipeline.Input{Path: path, Data: data})
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, err := doclink.FormatForPath(p); err != nil {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			inputs = append(inputs, pipeline.Input{Path: p, Data: data})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

// EncodeDocuments serializes linked trees as indented JSON.
func EncodeDocuments(w io.Writer, docs []*doclink.DocumentNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// WriteDocuments writes linked trees to path with atomic update semantics:
// the JSON is written to a temporary file and moved into place only once
// complete, so readers never observe a half-written result.
func WriteDocuments(path string, docs []*doclink.DocumentNode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}

	if err := EncodeDocuments(tmp, docs); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
