package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"entity-weaver/internal/fault"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// RelativePath is the descriptor location below a persistence-info root.
var RelativePath = filepath.Join("META-INF", "persistence.xml")

// PathIn returns the descriptor path below the persistence-info root dir.
func PathIn(dir string) string {
	return filepath.Join(dir, RelativePath)
}

// Store loads and saves descriptors on disk.
type Store struct {
	version SchemaVersion
}

// NewStore creates a Store that stamps new descriptors with version.
func NewStore(version SchemaVersion) *Store {
	if _, ok := schemas[version]; !ok {
		version = DefaultVersion
	}

	return &Store{version: version}
}

// Exists reports whether a descriptor file is present at path.
func (s *Store) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, fault.IO("stat", path, errors.New("is a directory"))
		}

		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fault.IO("stat", path, err)
	}
}

// Load reads the descriptor at path. Callers check Exists first; a missing
// file is reported as an I/O error wrapping fs.ErrNotExist.
func (s *Store) Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.IO("read", path, err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fault.Malformed(path, err)
	}

	return d, nil
}

// Create returns a new empty descriptor for the named unit.
func (s *Store) Create(unitName string) *Descriptor {
	return New(unitName, s.version)
}

// Save writes d to path, replacing any existing file. Readers never observe
// a partially written document.
func (s *Store) Save(d *Descriptor, path string) error {
	data, err := d.Serialize()
	if err != nil {
		return fault.IO("serialize", path, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return fault.IO("write", path, err)
	}

	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}

	renamed = true

	return nil
}
