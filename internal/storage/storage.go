// Package storage keeps serialized snapshots of record collections.
//
// Every backend stores opaque byte blobs under a key and overwrites the
// whole blob on Save; there is no append log and no partial update.
package storage

import (
	"context"
	"errors"
	"fmt"

	"checkin/internal/config"
)

var ErrNotFound = errors.New("snapshot not found")

// Storage is implemented by File, Mongo, MySQL and Memory.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

const (
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// New opens the backend selected in the configuration
func New(conf *config.Config) (Storage, error) {
	switch conf.Storage.Driver {
	case DriverFile, "":
		return NewFile(conf.Storage.Path)
	case DriverMongo:
		return NewMongo(conf)
	case DriverMySQL:
		return NewMySQL(conf)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", conf.Storage.Driver)
	}
}
