package catalog

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// Categories a package may be listed under. Unknown tokens are treated as
// "no filter" rather than rejected.
var knownCategories = map[string]bool{
	"hajj":  true,
	"umrah": true,
	"tour":  true,
}

// buildFilter compiles a parsed listing request into the predicate set the
// record store applies. travelID is the pre-resolved owner filter (0 = none);
// the period token is translated to a concrete createdAt bound from now.
func buildFilter(q domain.PackageQuery, travelID uint, now time.Time) domain.PackageFilter {
	category := strings.ToLower(strings.TrimSpace(q.Category))
	if category == "all" || !knownCategories[category] {
		category = ""
	}

	return domain.PackageFilter{
		Category:        category,
		Search:          strings.TrimSpace(q.Search),
		Location:        strings.TrimSpace(q.Location),
		TravelID:        travelID,
		Slug:            strings.TrimSpace(q.Slug),
		IncludeInactive: q.IncludeInactive,
		CreatedAfter:    periodCutoff(now, q.Period),
		DepartureMonth:  q.DepartureMonth,
		MinDuration:     q.MinDuration,
		MaxDuration:     q.MaxDuration,
		MinPrice:        q.MinPrice,
		MaxPrice:        q.MaxPrice,
	}
}

// periodCutoff translates a time-window token into a createdAt lower bound.
// day means the start of today; week/month/year subtract the interval first,
// then clamp to 00:00:00. Unknown tokens yield no bound.
func periodCutoff(now time.Time, period string) *time.Time {
	var cutoff time.Time
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "day":
		cutoff = startOfDay(now)
	case "week":
		cutoff = startOfDay(now.AddDate(0, 0, -7))
	case "month":
		cutoff = startOfDay(now.AddDate(0, -1, 0))
	case "year":
		cutoff = startOfDay(now.AddDate(-1, 0, 0))
	default:
		return nil
	}
	return &cutoff
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// filterScope returns a GORM scope applying the compiled predicate set.
// The owning travel is always joined: the active check spans both records and
// free-text search reaches the travel's display name and username.
func filterScope(f domain.PackageFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN travels ON travels.id = packages.travel_id")

		if !f.IncludeInactive {
			db = db.Where("packages.is_active = ? AND travels.is_active = ?", true, true)
		}
		if f.Slug != "" {
			db = db.Where("packages.slug = ?", f.Slug)
		}
		if f.Category != "" {
			db = db.Where("packages.category = ?", f.Category)
		}
		if f.Search != "" {
			pattern := "%" + strings.ToLower(f.Search) + "%"
			db = db.Where(
				"(LOWER(packages.name) LIKE ? OR LOWER(packages.description) LIKE ? OR LOWER(packages.departure_city) LIKE ? OR LOWER(travels.name) LIKE ? OR LOWER(travels.username) LIKE ?)",
				pattern, pattern, pattern, pattern, pattern,
			)
		}
		if f.Location != "" {
			db = db.Where("LOWER(packages.departure_city) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
		}
		if f.TravelID != 0 {
			db = db.Where("packages.travel_id = ?", f.TravelID)
		}
		if f.CreatedAfter != nil {
			db = db.Where("packages.created_at >= ?", *f.CreatedAfter)
		}
		if f.DepartureMonth >= 1 && f.DepartureMonth <= 12 {
			db = db.Where("packages.departure_month = ?", f.DepartureMonth)
		}
		if f.MinDuration > 0 {
			db = db.Where("packages.duration_days >= ?", f.MinDuration)
		}
		if f.MaxDuration > 0 {
			db = db.Where("packages.duration_days <= ?", f.MaxDuration)
		}
		if f.MinPrice > 0 {
			db = db.Where("packages.price >= ?", f.MinPrice)
		}
		if f.MaxPrice > 0 {
			db = db.Where("packages.price <= ?", f.MaxPrice)
		}

		return db
	}
}
