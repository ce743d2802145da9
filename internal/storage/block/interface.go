package block

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Storage defines the interface for block storage operations
type Storage interface {
	// Reader opens the object at path for reading
	Reader(ctx context.Context, path string) (io.ReadCloser, error)

	// Writer opens the object at path for writing; data is committed on Close
	Writer(ctx context.Context, path string) (io.WriteCloser, error)

	// Stat returns metadata for the object at path
	Stat(ctx context.Context, path string) (*Metadata, error)

	// List returns metadata for all objects under prefix
	List(ctx context.Context, prefix string) ([]*Metadata, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error

	// Health checks that the backend is reachable and writable
	Health(ctx context.Context) error
}

// Metadata represents object metadata
type Metadata struct {
	Path    string
	Size    int64
	ModTime int64
	ETag    string
}

// Config holds configuration for block storage
type Config struct {
	Type    string            `yaml:"type" json:"type"` // memory, local, s3
	BaseDir string            `yaml:"base_dir" json:"base_dir"`
	Options map[string]string `yaml:"options" json:"options"`
}

// Factory creates storage instances based on configuration
type Factory struct{}

// NewFactory creates a new storage factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a new storage instance based on the configuration
func (f *Factory) Create(ctx context.Context, config Config) (Storage, error) {
	switch config.Type {
	case "memory", "":
		return NewMemoryFS(), nil
	case "local", "filesystem", "fs":
		return NewLocalFS(config)
	case "s3":
		return NewS3FS(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}

// StorageError represents storage-specific errors
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrNotFound is wrapped by StorageError when an object does not exist
var ErrNotFound = errors.New("object not found")

// IsNotFound checks if an error indicates an object was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
