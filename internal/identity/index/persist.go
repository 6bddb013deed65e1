package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"rollcall/pkg/platform/sentinel"
)

const (
	vectorsFile = "embeddings.bin"
	keysFile    = "identities.json"
)

// fileSet is the on-disk pair: a gonum binary matrix of vectors and a JSON
// array of identity keys in the same row order.
type fileSet struct {
	dir string
}

func newFileSet(dir string) fileSet {
	return fileSet{dir: dir}
}

func (f fileSet) vectorsPath() string { return filepath.Join(f.dir, vectorsFile) }
func (f fileSet) keysPath() string    { return filepath.Join(f.dir, keysFile) }

// Persist writes a consistent snapshot to disk. Concurrent calls are
// serialized so an older snapshot can never overwrite a newer one. A stale
// index leaves the files on disk untouched and returns ErrStale.
func (ix *Index) Persist() error {
	ix.persistMu.Lock()
	defer ix.persistMu.Unlock()

	keys, vectors, stale := ix.snapshot()
	if stale {
		return ErrStale
	}
	if err := os.MkdirAll(ix.files.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	if len(keys) == 0 {
		if err := os.Remove(ix.files.vectorsPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove vectors file: %w", err)
		}
	} else {
		m := mat.NewDense(len(keys), Dimensions, vectors)
		if err := writeAtomic(ix.files.vectorsPath(), func(w io.Writer) error {
			_, err := m.MarshalBinaryTo(w)
			return err
		}); err != nil {
			return fmt.Errorf("write vectors file: %w", err)
		}
	}

	if err := writeAtomic(ix.files.keysPath(), func(w io.Writer) error {
		return json.NewEncoder(w).Encode(keys)
	}); err != nil {
		return fmt.Errorf("write keys file: %w", err)
	}

	ix.logger.Debug("embedding index persisted", "entries", len(keys), "dir", ix.files.dir)
	return nil
}

// Load replaces the in-memory collection with the last persisted snapshot.
// A missing keys file yields an empty index. On any other failure the index
// is left empty and stale until Replace rebuilds it.
func (ix *Index) Load() error {
	ix.persistMu.Lock()
	defer ix.persistMu.Unlock()

	keys, err := readKeys(ix.files.keysPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ix.logger.Info("no persisted embedding index, starting empty", "dir", ix.files.dir)
			ix.set(nil, nil, false)
			return nil
		}
		ix.set(nil, nil, true)
		return err
	}

	var vectors []float64
	if len(keys) > 0 {
		vectors, err = readVectors(ix.files.vectorsPath(), len(keys))
		if err != nil {
			ix.set(nil, nil, true)
			return err
		}
	}

	ix.set(keys, vectors, false)

	ix.logger.Info("embedding index loaded", "entries", len(keys), "dir", ix.files.dir)
	return nil
}

func (ix *Index) set(keys []string, vectors []float64, stale bool) {
	ix.mu.Lock()
	ix.keys, ix.vectors, ix.stale = keys, vectors, stale
	ix.mu.Unlock()
}

func readKeys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keys file: %w", err)
	}
	defer f.Close()

	var keys []string
	if err := json.NewDecoder(f).Decode(&keys); err != nil {
		return nil, fmt.Errorf("%w: decode keys file: %v", sentinel.ErrCorrupt, err)
	}
	return keys, nil
}

func readVectors(path string, rows int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: keys file lists %d entries but vectors file is missing", sentinel.ErrCorrupt, rows)
		}
		return nil, fmt.Errorf("open vectors file: %w", err)
	}
	defer f.Close()

	var m mat.Dense
	if _, err := m.UnmarshalBinaryFrom(f); err != nil {
		return nil, fmt.Errorf("%w: decode vectors file: %v", sentinel.ErrCorrupt, err)
	}
	r, c := m.Dims()
	if r != rows || c != Dimensions {
		return nil, fmt.Errorf("%w: vectors file is %dx%d, want %dx%d", sentinel.ErrCorrupt, r, c, rows, Dimensions)
	}

	vectors := make([]float64, 0, r*c)
	for i := range r {
		vectors = append(vectors, mat.Row(nil, i, &m)...)
	}
	return vectors, nil
}

// writeAtomic writes through a temp file in the same directory and renames it
// over path so readers never observe a torn file.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
