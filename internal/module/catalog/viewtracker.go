package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// userAgentMaxLen bounds the stored user-agent string.
const userAgentMaxLen = 512

// ViewTracker records detail views: one atomic views-counter increment plus
// one append-only PackageView row per detail lookup. Repeat viewers are not
// deduplicated.
type ViewTracker struct {
	repo   domain.PackageRepository
	logger *slog.Logger

	// wg lets tests wait for in-flight writes; production callers never do.
	wg sync.WaitGroup
}

// NewViewTracker creates a ViewTracker writing through the given repository.
func NewViewTracker(repo domain.PackageRepository, logger *slog.Logger) *ViewTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewTracker{repo: repo, logger: logger}
}

// Track fires both view-tracking effects for a detail lookup and returns
// immediately. The writes run detached from the request's cancellation:
// losing a view increment is worse than a slightly late write, so a caller
// disconnect does not abort them. Failures are logged, never surfaced.
func (t *ViewTracker) Track(ctx context.Context, packageID uint, ip, userAgent string) {
	if ip == "" {
		ip = "unknown"
	}
	if len(userAgent) > userAgentMaxLen {
		userAgent = userAgent[:userAgentMaxLen]
	}

	detached := context.WithoutCancel(ctx)

	t.wg.Add(2)
	go func() {
		defer t.wg.Done()
		if err := t.repo.IncrementViews(detached, packageID); err != nil {
			t.logger.Error("increment package views",
				slog.Uint64("package_id", uint64(packageID)),
				slog.Any("error", err),
			)
		}
	}()
	go func() {
		defer t.wg.Done()
		view := &domain.PackageView{
			PackageID: packageID,
			IPAddress: ip,
			UserAgent: userAgent,
		}
		if err := t.repo.CreatePackageView(detached, view); err != nil {
			t.logger.Error("record package view",
				slog.Uint64("package_id", uint64(packageID)),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until all in-flight tracking writes have finished.
func (t *ViewTracker) Wait() {
	t.wg.Wait()
}
