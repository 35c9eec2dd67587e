package domain

import (
	"context"
	"time"
)

// Sort algorithm values accepted for the packageSortAlgorithm setting.
const (
	SortNewest  = "newest"
	SortPopular = "popular"
	SortRandom  = "random"
)

// Settings keys consumed by the listing pipeline.
const (
	SettingSortAlgorithm    = "packageSortAlgorithm"
	SettingVerifiedPriority = "verifiedPriority"
)

// UnlimitedPackageLimit marks a travel whose package quota is not enforced.
const UnlimitedPackageLimit = 999

// Travel is a package operator. A package is only publicly listable when both
// the package and its owning travel are active.
type Travel struct {
	BaseModel
	Name         string  `gorm:"size:255;not null" json:"name"`
	Username     string  `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Logo         string  `gorm:"size:512" json:"logo"`
	Phone        string  `gorm:"size:32" json:"phone"`
	Rating       float64 `json:"rating"`
	IsActive     bool    `gorm:"index" json:"isActive"`
	IsVerified   bool    `gorm:"index" json:"isVerified"`
	PackageUsed  int     `json:"packageUsed"`
	PackageLimit int     `gorm:"default:10" json:"packageLimit"`
}

// TravelPublic is the subset of travel fields exposed on listed packages.
type TravelPublic struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	Logo       string  `json:"logo"`
	Username   string  `json:"username"`
	IsVerified bool    `json:"isVerified"`
	IsActive   bool    `json:"isActive"`
	Phone      string  `json:"phone"`
}

// Public returns the publicly exposed travel fields.
func (t Travel) Public() TravelPublic {
	return TravelPublic{
		ID:         t.ID,
		Name:       t.Name,
		Rating:     t.Rating,
		Logo:       t.Logo,
		Username:   t.Username,
		IsVerified: t.IsVerified,
		IsActive:   t.IsActive,
		Phone:      t.Phone,
	}
}

// Package is a travel package offered by a travel operator.
//
// Facilities, Includes, Excludes, PriceOptions, and Itinerary hold
// JSON-encoded arrays as opaque text; they are decoded only at the response
// boundary. Views and BookingClicks are monotonically non-decreasing counters;
// Views is mutated exclusively through PackageRepository.IncrementViews.
type Package struct {
	BaseModel
	TravelID       uint       `gorm:"index;not null" json:"travelId"`
	Travel         Travel     `json:"-"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Slug           string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description    string     `gorm:"type:text" json:"description"`
	Category       string     `gorm:"size:50;index" json:"category"`
	FlightType     string     `gorm:"size:50" json:"flightType"`
	DepartureCity  string     `gorm:"size:100" json:"departureCity"`
	DepartureDate  time.Time  `json:"departureDate"`
	DepartureMonth int        `gorm:"index" json:"departureMonth"`
	DurationDays   int        `json:"durationDays"`
	Price          int64      `json:"price"`
	OriginalPrice  int64      `json:"originalPrice"`
	Cashback       int64      `json:"cashback"`
	Quota          int        `json:"quota"`
	QuotaAvailable int        `json:"quotaAvailable"`
	Views          int64      `json:"views"`
	BookingClicks  int64      `json:"bookingClicks"`
	IsActive       bool       `gorm:"index" json:"isActive"`
	IsPinned       bool       `gorm:"index" json:"isPinned"`
	PinnedAt       *time.Time `json:"pinnedAt"`
	Facilities     string     `gorm:"type:text" json:"-"`
	Includes       string     `gorm:"type:text" json:"-"`
	Excludes       string     `gorm:"type:text" json:"-"`
	PriceOptions   string     `gorm:"type:text" json:"-"`
	Itinerary      string     `gorm:"type:text" json:"-"`

	// FavoriteCount is derived per request by the favorite aggregation
	// query; it is never persisted.
	FavoriteCount int64 `gorm:"-" json:"favoriteCount"`
}

// Favorite records that a user favorited a package. Created and deleted by the
// favorites endpoint; read-only to the listing pipeline.
type Favorite struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex:idx_favorites_user_package;not null" json:"userId"`
	PackageID uint `gorm:"uniqueIndex:idx_favorites_user_package;index;not null" json:"packageId"`
}

// PackageView is an append-only record of a single detail view. Repeat views
// from the same visitor are intentionally not deduplicated.
type PackageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PackageID uint      `gorm:"index;not null" json:"packageId"`
	IPAddress string    `gorm:"size:64" json:"ipAddress"`
	UserAgent string    `gorm:"size:512" json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// Setting is a key/value pair of mutable global configuration.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceOption is one entry of a package's decoded priceOptions list.
type PriceOption struct {
	Name          string `json:"name,omitempty"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"originalPrice,omitempty"`
	Cashback      int64  `json:"cashback"`
}

// ItineraryDay is one entry of a package's decoded itinerary.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// PackageDetail is a package as returned to API callers: counters and derived
// metrics merged on, JSON text columns decoded, and the owning travel's
// public fields attached.
type PackageDetail struct {
	Package
	Facilities   []string       `json:"facilities"`
	Includes     []string       `json:"includes"`
	Excludes     []string       `json:"excludes"`
	PriceOptions []PriceOption  `json:"priceOptions"`
	Itinerary    []ItineraryDay `json:"itinerary"`
	Travel       TravelPublic   `json:"travel"`
}

// PackageFilter is the compiled predicate set applied by the record store.
// All supplied criteria narrow the result via logical AND; Search is a
// case-insensitive substring OR across package name, description, departure
// city and the owning travel's name/username. A zero field means "no filter".
type PackageFilter struct {
	Category        string
	Search          string
	Location        string
	TravelID        uint
	Slug            string
	IncludeInactive bool
	CreatedAfter    *time.Time
	DepartureMonth  int
	MinDuration     int
	MaxDuration     int
	MinPrice        int64
	MaxPrice        int64
}

// PackageQuery is a parsed listing request.
type PackageQuery struct {
	Category        string
	Search          string
	Location        string
	Username        string
	Slug            string
	IncludeInactive bool
	Period          string
	SimpleSort      bool
	Page            int
	PageSize        int
	Limit           int
	DepartureMonth  int
	MinDuration     int
	MaxDuration     int
	MinPrice        int64
	MaxPrice        int64

	// Caller identity captured for view tracking on detail lookups.
	ClientIP  string
	UserAgent string
}

// PackageList is the result of a listing request: the ranked window plus
// pagination metadata.
type PackageList struct {
	Items      []PackageDetail
	Pagination Pagination
}

// CreatePackageInput carries a validated package-creation payload.
type CreatePackageInput struct {
	TravelID      uint
	Name          string
	Description   string
	Category      string
	FlightType    string
	DepartureCity string
	DepartureDate time.Time
	DurationDays  int
	Price         int64
	OriginalPrice int64
	Cashback      int64
	Quota         int
	Facilities    []string
	Includes      []string
	Excludes      []string
	PriceOptions  []PriceOption
	Itinerary     []ItineraryDay
}

// RankConfig is the settings snapshot consumed by the ranking engine.
type RankConfig struct {
	Algorithm        string
	VerifiedPriority bool
}

// DefaultRankConfig returns the configuration used when settings are absent.
func DefaultRankConfig() RankConfig {
	return RankConfig{Algorithm: SortNewest, VerifiedPriority: true}
}

// PackageRepository defines typed access to packages, travels, favorites and
// view events.
type PackageRepository interface {
	// CreatePackage inserts a package and increments the owning travel's
	// packageUsed counter in one transaction. It returns a validation error
	// when the travel's quota is exhausted, without creating a record.
	CreatePackage(ctx context.Context, p *Package) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountPackages(ctx context.Context, f PackageFilter) (int64, error)
	ListPackages(ctx context.Context, f PackageFilter, offset, limit int) ([]Package, error)
	// CountFavorites groups favorites by package for the given candidate ids.
	// IDs with zero favorites are absent from the returned map.
	CountFavorites(ctx context.Context, packageIDs []uint) (map[uint]int64, error)
	// IncrementViews atomically bumps a package's views counter by one.
	IncrementViews(ctx context.Context, packageID uint) error
	CreatePackageView(ctx context.Context, v *PackageView) error
	GetTravelByID(ctx context.Context, id uint) (*Travel, error)
	GetTravelByUsername(ctx context.Context, username string) (*Travel, error)
}

// SettingsRepository defines access to the settings key/value store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SettingsService exposes typed views over raw settings.
type SettingsService interface {
	RankConfig(ctx context.Context) RankConfig
}

// CatalogService is the listing and creation surface of the package catalog.
type CatalogService interface {
	ListPackages(ctx context.Context, q PackageQuery) (*PackageList, error)
	CreatePackage(ctx context.Context, in CreatePackageInput) (*Package, error)
}
