package fs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dustdoc"
)

// ManifestName is the file in every output directory that records the
// content hash of each output written there.
const ManifestName = ".dustdoc.sum"

// Ensure Writer implements dustdoc.OutputWriter at compile time.
var _ dustdoc.OutputWriter = (*Writer)(nil)

// Writer stores generated documents on disk. Each file is written to a
// temporary file in the target directory and renamed into place, so a
// reader never observes a partial document.
//
// The hash, size and modification time of every written output are kept
// in the directory's manifest. An output whose recorded hash matches the
// new content, and whose size and modification time still match the
// record, is left untouched without being read.
type Writer struct {
	mu        sync.Mutex
	manifests map[string]manifest
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{manifests: make(map[string]manifest)}
}

// WriteOutput writes content to path unless the file already holds the same
// content. It reports whether the file changed.
func (w *Writer) WriteOutput(ctx context.Context, path string, content []byte) (bool, error) {
	hash := ContentHash(content)
	dir, name := filepath.Dir(path), filepath.Base(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	m, err := w.manifest(dir)
	if err != nil {
		return false, err
	}

	if e, ok := m[name]; ok && e.hash == hash && e.current(path) {
		return false, nil
	} else if !ok {
		// Outputs written before the manifest existed are compared once.
		if same, err := sameContent(path, hash); err != nil {
			return false, err
		} else if same {
			return false, w.record(dir, name, path, hash)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	if err := writeAtomic(path, content); err != nil {
		return false, err
	}
	return true, w.record(dir, name, path, hash)
}

// record stores the state of the output at path in the manifest of dir and
// saves the manifest.
func (w *Writer) record(dir, name, path string, hash uint64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	m := w.manifests[dir]
	m[name] = entry{hash: hash, size: info.Size(), mtime: info.ModTime().UnixNano()}
	return writeAtomic(filepath.Join(dir, ManifestName), m.encode())
}

// manifest returns the manifest of dir, loading it on first use.
func (w *Writer) manifest(dir string) (manifest, error) {
	if w.manifests == nil {
		w.manifests = make(map[string]manifest)
	}
	if m, ok := w.manifests[dir]; ok {
		return m, nil
	}
	m, err := readManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	w.manifests[dir] = m
	return m, nil
}

// entry is the recorded state of one output file.
type entry struct {
	hash  uint64
	size  int64
	mtime int64
}

// current reports whether the file at path still has the recorded size
// and modification time.
func (e entry) current(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == e.size && info.ModTime().UnixNano() == e.mtime
}

// manifest maps output file names to their recorded state. Each line of the
// encoded form is "<hash> <size> <mtime> <name>", sorted by name.
type manifest map[string]entry

func (m manifest) encode() []byte {
	var buf bytes.Buffer
	for _, name := range slices.Sorted(maps.Keys(m)) {
		e := m[name]
		fmt.Fprintf(&buf, "%016x %d %d %s\n", e.hash, e.size, e.mtime, name)
	}
	return buf.Bytes()
}

func readManifest(path string) (manifest, error) {
	m := make(manifest)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	} else if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), " ", 4)
		if len(fields) != 4 {
			continue
		}
		hash, err1 := strconv.ParseUint(fields[0], 16, 64)
		size, err2 := strconv.ParseInt(fields[1], 10, 64)
		mtime, err3 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		m[fields[3]] = entry{hash: hash, size: size, mtime: mtime}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return m, nil
}

// sameContent reports whether the file at path exists and hashes to hash.
func sameContent(path string, hash uint64) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("read existing output %s: %w", path, err)
	}
	return ContentHash(existing) == hash, nil
}

// writeAtomic writes content to a temporary file next to path and renames
// it into place.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ContentHash computes a hash of the content using xxhash.
func ContentHash(content []byte) uint64 {
	return xxhash.Sum64(content)
}
