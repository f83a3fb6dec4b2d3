// Package fs provides file-based source reading and output storage.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/dustdoc"
)

// OutputPath maps a source file found under srcRoot to its output path
// under outRoot, keeping the relative layout and swapping the extension.
// Example: src/net/socket.dust → out/net/socket.md
func OutputPath(srcRoot, srcPath, outRoot string, format dustdoc.Format) (string, error) {
	rel, err := filepath.Rel(srcRoot, srcPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", dustdoc.Errorf(dustdoc.EINVALID, "source %q is outside %q", srcPath, srcRoot)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + format.Ext()
	return filepath.Join(outRoot, rel), nil
}

// FindSources returns every Dust source file below dir in lexical order.
// Returns ENOTFOUND if dir does not exist.
func FindSources(ctx context.Context, dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if dustdoc.IsSource(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, dustdoc.Errorf(dustdoc.ENOTFOUND, "source directory %q not found", dir)
	} else if err != nil {
		return nil, fmt.Errorf("find sources in %s: %w", dir, err)
	}
	return paths, nil
}

// Ensure Reader implements dustdoc.SourceReader at compile time.
var _ dustdoc.SourceReader = (*Reader)(nil)

// Reader reads source files from disk.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadSource reads the whole source file at path.
func (r *Reader) ReadSource(ctx context.Context, path string) (*dustdoc.SourceFile, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, dustdoc.Errorf(dustdoc.ENOTFOUND, "source %q not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return &dustdoc.SourceFile{Path: path, Content: content}, nil
}
