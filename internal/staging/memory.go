package staging

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"aperturama/internal/aperture"
)

// NewMemoryStagingArea creates an in-memory staging area.
// maxSize is the maximum total size in bytes; must be positive.
func NewMemoryStagingArea(maxSize int64, clock aperture.Clock, idgen aperture.IDGenerator) aperture.StagingArea {
	return &stagingArea{
		store:   newMemoryStore(),
		maxSize: maxSize,
		clock:   clock,
		idgen:   idgen,
	}
}

type memoryEntry struct {
	data      []byte
	createdAt time.Time
}

// memoryStore keeps uploads in a map. Uploads being written are not listed.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

var _ stagingStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*memoryEntry)}
}

func (m *memoryStore) Create(key string, createdAt time.Time) (io.WriteCloser, error) {
	return &memoryWriter{store: m, key: key, createdAt: createdAt}, nil
}

func (m *memoryStore) Open(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("staged upload not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(e.data)), nil
}

func (m *memoryStore) LocalPath(string) string { return "" }

func (m *memoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryStore) List() ([]storedUpload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storedUpload, 0, len(m.entries))
	for key, e := range m.entries {
		out = append(out, storedUpload{key: key, size: int64(len(e.data)), createdAt: e.createdAt})
	}
	return out, nil
}

func (m *memoryStore) ContentSize() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, e := range m.entries {
		total += int64(len(e.data))
	}
	return total, nil
}

type memoryWriter struct {
	store     *memoryStore
	key       string
	createdAt time.Time
	buf       bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memoryWriter) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.entries[w.key] = &memoryEntry{data: w.buf.Bytes(), createdAt: w.createdAt}
	return nil
}
