package kv

import (
	"context"
	"io"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

type fileRepo struct {
	dir    string
	logger *log.Logger
}

// NewFile stores each key as one file under dir. Writes go to a temp file that
// is renamed over the target, so a reader never sees a half-written value.
func NewFile(dir string, logger *log.Logger) (Repository, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if dir == "" {
		return nil, errors.New("file storage: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "file storage: create directory")
	}
	return &fileRepo{dir: dir, logger: logger}, nil
}

func (r *fileRepo) path(key string) string {
	return filepath.Join(r.dir, url.QueryEscape(key)+".json")
}

func (r *fileRepo) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		r.logger.Printf("kv file: get key=%s error=%v", key, err)
		return nil, err
	}
	return data, nil
}

func (r *fileRepo) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(r.dir, ".kv-*")
	if err != nil {
		r.logger.Printf("kv file: set key=%s error=%v", key, err)
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", key)
	}
	if err := os.Rename(tmpName, r.path(key)); err != nil {
		r.logger.Printf("kv file: rename key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (r *fileRepo) Delete(_ context.Context, key string) error {
	err := os.Remove(r.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (r *fileRepo) Ping(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.Errorf("file storage: %s is not a directory", r.dir)
	}
	return nil
}
