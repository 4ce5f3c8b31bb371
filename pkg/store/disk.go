package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// DefaultDiskPath is where the CLI keeps pages when no path is configured.
const DefaultDiskPath = "~/.config/gridshift/pages"

// Disk stores one file per page under a base directory. Files are spread
// over subdirectories named after the first two hex digits of the ID's hash.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// NewDisk opens a disk store rooted at path. A leading ~ is expanded; an
// empty path means DefaultDiskPath.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		path = DefaultDiskPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "expand store path %q", path)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, unavailable(BackendDisk, err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:          expanded,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024,
		}),
		basePath: expanded,
	}, nil
}

// Path returns the base directory.
func (s *Disk) Path() string { return s.basePath }

func (s *Disk) Get(_ context.Context, id string) ([]byte, error) {
	if err := errors.ValidatePageID(id); err != nil {
		return nil, err
	}
	data, err := s.d.Read(id)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, unavailable(BackendDisk, err)
	}
	return data, nil
}

func (s *Disk) Put(_ context.Context, id string, data []byte) error {
	if err := errors.ValidatePageID(id); err != nil {
		return err
	}
	if err := s.d.Write(id, data); err != nil {
		return unavailable(BackendDisk, err)
	}
	return nil
}

func (s *Disk) Delete(_ context.Context, id string) error {
	if err := errors.ValidatePageID(id); err != nil {
		return err
	}
	if !s.d.Has(id) {
		return nil
	}
	if err := s.d.Erase(id); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return unavailable(BackendDisk, err)
	}
	return nil
}

func (s *Disk) List(ctx context.Context) ([]string, error) {
	var ids []string
	for key := range s.d.Keys(ctx.Done()) {
		ids = append(ids, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Disk) Close() error { return nil }

func hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{hash(key)[:2]},
		FileName: key + ".page",
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(filepath.Base(pk.FileName), ".page")
}

var _ Store = (*Disk)(nil)
