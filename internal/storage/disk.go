package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk is a KV that keeps one file per key under a base directory.
type Disk struct {
	d *diskv.Diskv
}

func OpenDisk(dir string) (*Disk, error) {
	if dir == "" {
		return nil, errors.New("storage: disk dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure %s: %w", dir, err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (k *Disk) Get(key string) ([]byte, error) {
	if !k.d.Has(key) {
		return nil, ErrNotFound
	}
	val, err := k.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return val, nil
}

func (k *Disk) Put(key string, value []byte) error {
	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

func (k *Disk) Close() error { return nil }
