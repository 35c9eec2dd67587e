package catalog

import (
	"math"
	"sort"
	"time"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// Popularity weights. Fixed policy constants, not configurable.
const (
	favoriteWeight     = 2
	bookingClickWeight = 3
)

// rank orders packages in place under the three-tier priority policy:
// pinned packages first (FIFO by pinnedAt), then verified-travel priority
// when enabled, then the configured algorithm. The sort is stable, so
// packages tied on every tier keep their fetch order.
//
// Packages must carry their Travel association and FavoriteCount before
// ranking; the popular algorithm depends on both.
func rank(items []domain.Package, cfg domain.RankConfig, now time.Time) {
	seed := daySeed(now)
	sort.SliceStable(items, func(i, j int) bool {
		return rankLess(&items[i], &items[j], cfg, seed)
	})
}

// rankSimple orders packages newest-first, bypassing settings and pin state
// entirely. Used for internal/administrative flat queries.
func rankSimple(items []domain.Package) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func rankLess(a, b *domain.Package, cfg domain.RankConfig, seed int) bool {
	// Tier 1: pinned before non-pinned; among pinned, earliest pin first.
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if a.IsPinned {
		at, bt := pinTime(a), pinTime(b)
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		return false
	}

	// Tier 2: verified-travel priority among non-pinned packages.
	if cfg.VerifiedPriority && a.Travel.IsVerified != b.Travel.IsVerified {
		return a.Travel.IsVerified
	}

	// Tier 3: configured algorithm.
	switch cfg.Algorithm {
	case domain.SortPopular:
		sa, sb := popularityScore(a), popularityScore(b)
		if sa != sb {
			return sa > sb
		}
	case domain.SortRandom:
		ka, kb := randomKey(a, seed), randomKey(b, seed)
		if ka != kb {
			return ka < kb
		}
	default: // newest
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return false
}

// popularityScore is views + 2×favoriteCount + 3×bookingClicks.
func popularityScore(p *domain.Package) int64 {
	return p.Views + favoriteWeight*p.FavoriteCount + bookingClickWeight*p.BookingClicks
}

// daySeed derives a numeric seed from the UTC date components, so the random
// ordering is stable within a calendar day and changes the next day without
// any persisted state.
func daySeed(now time.Time) int {
	y, m, d := now.UTC().Date()
	return y + int(m) + d
}

// randomKey maps a package to a pseudo-random but day-stable sort key.
func randomKey(p *domain.Package, seed int) float64 {
	var c byte
	if len(p.Slug) > 0 {
		c = p.Slug[0]
	}
	return math.Sin(float64(seed) + float64(c))
}

func pinTime(p *domain.Package) time.Time {
	if p.PinnedAt == nil {
		return time.Time{}
	}
	return *p.PinnedAt
}
