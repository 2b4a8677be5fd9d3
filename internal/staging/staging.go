package staging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"aperturama/internal/aperture"
)

// ErrStagingFull is returned when an upload would push the staging area
// past its maximum size.
var ErrStagingFull = errors.New("staging area full")

// stagingArea implements aperture.StagingArea using a pluggable stagingStore
// for the storage mechanics. All shared algorithm logic lives here.
type stagingArea struct {
	store   stagingStore
	maxSize int64
	clock   aperture.Clock
	idgen   aperture.IDGenerator

	// mu serializes the size check that admits a completed upload.
	mu sync.Mutex
}

var _ aperture.StagingArea = (*stagingArea)(nil)

// Stage copies r into a new staged upload while computing its SHA-256.
// The copy stops early if ctx is cancelled or the upload outgrows the free
// space, and the partial bytes are discarded.
func (s *stagingArea) Stage(ctx context.Context, r io.Reader) (aperture.StagedUpload, error) {
	used, err := s.store.ContentSize()
	if err != nil {
		return nil, fmt.Errorf("getting current size: %w", err)
	}
	free := s.maxSize - used
	if free <= 0 {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrStagingFull, s.maxSize)
	}

	key := s.idgen.New()
	w, err := s.store.Create(key, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("creating staged upload: %w", err)
	}

	hasher := sha256.New()
	limited := &io.LimitedReader{R: contextReader{ctx: ctx, r: r}, N: free + 1}
	size, copyErr := io.Copy(io.MultiWriter(w, hasher), limited)
	closeErr := w.Close()

	switch {
	case copyErr != nil:
		s.store.Remove(key)
		return nil, fmt.Errorf("buffering upload: %w", copyErr)
	case closeErr != nil:
		s.store.Remove(key)
		return nil, fmt.Errorf("finishing staged upload: %w", closeErr)
	case size > free:
		s.store.Remove(key)
		return nil, fmt.Errorf("%w: upload exceeds %d free bytes of %d", ErrStagingFull, free, s.maxSize)
	}
	if err := s.admit(key); err != nil {
		return nil, err
	}

	return &stagedUpload{
		key:      key,
		checksum: hex.EncodeToString(hasher.Sum(nil)),
		size:     size,
		store:    s.store,
	}, nil
}

// admit rechecks the total once the upload is complete, since concurrent
// uploads were copied against the same free space.
func (s *stagingArea) admit(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used, err := s.store.ContentSize()
	if err != nil {
		s.store.Remove(key)
		return fmt.Errorf("getting current size: %w", err)
	}
	if used > s.maxSize {
		s.store.Remove(key)
		return fmt.Errorf("%w: max size is %d bytes", ErrStagingFull, s.maxSize)
	}
	return nil
}

func (s *stagingArea) Remove(upload aperture.StagedUpload) error {
	if err := s.store.Remove(upload.Key()); err != nil {
		return fmt.Errorf("removing staged upload %s: %w", upload.Key(), err)
	}
	return nil
}

// Count returns the number of staged uploads.
func (s *stagingArea) Count() (int, error) {
	entries, err := s.store.List()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Size returns the total size of staged content in bytes.
func (s *stagingArea) Size() (int64, error) {
	return s.store.ContentSize()
}

// Purge removes uploads staged before olderThan.
func (s *stagingArea) Purge(olderThan time.Time) (int, error) {
	entries, err := s.store.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.createdAt.Before(olderThan) {
			continue
		}
		if err := s.store.Remove(e.key); err != nil {
			return removed, fmt.Errorf("removing staged upload %s: %w", e.key, err)
		}
		removed++
	}
	return removed, nil
}

// contextReader fails reads once ctx is done, so that an abandoned
// transfer stops staging instead of running to completion.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
