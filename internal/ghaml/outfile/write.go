package outfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteGeneratedFile writes src to outPath unless the file already holds
// exactly src, so unchanged templates keep their generated file's mtime. It
// reports whether the file was written.
func WriteGeneratedFile(outPath string, src []byte) (bool, error) {
	old, err := os.ReadFile(outPath)
	switch {
	case err == nil && bytes.Equal(old, src):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// GeneratedPath is the file a template's Go code is written to.
func GeneratedPath(templatePath string) string {
	return templatePath + ".go"
}
