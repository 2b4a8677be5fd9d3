package aperture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"aperturama/internal/database/sqlc"
)

const auditConcurrency = 8

// DefaultAuditMinAge is how long a media row must have existed before Audit
// reports it. Younger rows may belong to an ingest still writing artifacts.
const DefaultAuditMinAge = time.Hour

// AuditFinding describes a media row whose artifacts are not all present.
type AuditFinding struct {
	Media            *sqlc.Media
	MissingOriginal  bool
	MissingThumbnail bool
}

// Audit checks every media row uploaded at least minAge ago against the vault
// and reports the incomplete ones, ordered by media id.
func (s *Service) Audit(ctx context.Context, minAge time.Duration) ([]*AuditFinding, error) {
	media, err := s.store.ListAllMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	cutoff := s.clock.Now().Add(-minAge)

	findings := make([]*AuditFinding, len(media))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(auditConcurrency)
	for i, m := range media {
		if m.UploadedAt.After(cutoff) {
			continue
		}
		g.Go(func() error {
			f, err := s.checkArtifacts(gctx, m)
			if err != nil {
				return err
			}
			findings[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*AuditFinding
	for _, f := range findings {
		if f != nil {
			out = append(out, f)
		}
	}
	s.logger.Info("audit complete", "media", len(media), "incomplete", len(out))
	return out, nil
}

// checkArtifacts returns a finding for m, or nil when both artifacts exist.
func (s *Service) checkArtifacts(ctx context.Context, m *sqlc.Media) (*AuditFinding, error) {
	hasOriginal, err := s.vault.HasOriginal(ctx, m.ID, MediaExt(m.Filename))
	if err != nil {
		return nil, fmt.Errorf("checking original of media %d: %w", m.ID, err)
	}
	hasThumbnail, err := s.vault.HasThumbnail(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("checking thumbnail of media %d: %w", m.ID, err)
	}
	if hasOriginal && hasThumbnail {
		return nil, nil
	}
	return &AuditFinding{Media: m, MissingOriginal: !hasOriginal, MissingThumbnail: !hasThumbnail}, nil
}

// Repair deletes the rows and remaining artifacts of the given incomplete
// media. Each row is checked again first and skipped if it is gone or has
// since become complete. It returns how many rows were removed.
func (s *Service) Repair(ctx context.Context, findings []*AuditFinding) (int, error) {
	var (
		mu      sync.Mutex
		removed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(auditConcurrency)
	for _, f := range findings {
		g.Go(func() error {
			m, err := s.store.FindMediaByID(gctx, f.Media.ID)
			if err != nil {
				return fmt.Errorf("finding media %d: %w", f.Media.ID, err)
			}
			if m == nil {
				return nil
			}
			current, err := s.checkArtifacts(gctx, m)
			if err != nil {
				return err
			}
			if current == nil {
				s.logger.Info("media complete since audit", "media_id", m.ID)
				return nil
			}
			if err := s.store.DeleteMedia(gctx, f.Media.ID); err != nil {
				return fmt.Errorf("deleting media %d: %w", f.Media.ID, err)
			}
			if err := s.vault.DeleteMedia(gctx, f.Media.ID, MediaExt(f.Media.Filename)); err != nil {
				s.logger.Warn("failed to remove artifacts", "media_id", f.Media.ID, "error", err)
			}
			mu.Lock()
			removed++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return removed, err
	}
	s.logger.Info("repair complete", "removed", removed)
	return removed, nil
}

// PurgeStaging removes staged uploads older than maxAge, the leftovers of
// interrupted ingests.
func (s *Service) PurgeStaging(maxAge time.Duration) (int, error) {
	n, err := s.stagingArea.Purge(s.clock.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("purging staging area: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged staged uploads", "count", n)
	}
	return n, nil
}
