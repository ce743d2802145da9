package block

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements the Storage interface in process memory
type MemoryFS struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data    []byte
	modTime int64
}

// NewMemoryFS creates an empty in-memory storage
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{objects: make(map[string]memoryObject)}
}

// Reader returns a reader over a copy of the object at path
func (m *MemoryFS) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.RLock()
	obj, ok := m.objects[path]
	m.mu.RUnlock()
	if !ok {
		return nil, &StorageError{Op: "open", Path: path, Err: ErrNotFound}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Writer buffers writes and stores the object on Close
func (m *MemoryFS) Writer(ctx context.Context, path string) (io.WriteCloser, error) {
	return &memoryWriter{fs: m, path: path}, nil
}

// Stat returns metadata for the object at path
func (m *MemoryFS) Stat(ctx context.Context, path string) (*Metadata, error) {
	m.mu.RLock()
	obj, ok := m.objects[path]
	m.mu.RUnlock()
	if !ok {
		return nil, &StorageError{Op: "stat", Path: path, Err: ErrNotFound}
	}
	return &Metadata{Path: path, Size: int64(len(obj.data)), ModTime: obj.modTime}, nil
}

// List returns metadata for all objects whose path starts with prefix
func (m *MemoryFS) List(ctx context.Context, prefix string) ([]*Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []*Metadata{}
	for path, obj := range m.objects {
		if strings.HasPrefix(path, prefix) {
			results = append(results, &Metadata{Path: path, Size: int64(len(obj.data)), ModTime: obj.modTime})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// Delete removes the object at path
func (m *MemoryFS) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[path]; !ok {
		return &StorageError{Op: "delete", Path: path, Err: ErrNotFound}
	}
	delete(m.objects, path)
	return nil
}

// Health always succeeds for memory storage
func (m *MemoryFS) Health(ctx context.Context) error {
	return nil
}

type memoryWriter struct {
	fs     *MemoryFS
	path   string
	buffer bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buffer.Write(p)
}

func (w *memoryWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()

	w.fs.objects[w.path] = memoryObject{
		data:    append([]byte(nil), w.buffer.Bytes()...),
		modTime: time.Now().Unix(),
	}
	return nil
}
