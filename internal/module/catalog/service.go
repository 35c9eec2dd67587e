package catalog

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/travelmarket/internal/domain"
	"github.com/simp-lee/travelmarket/internal/pkg"
)

// catalogService implements domain.CatalogService. It orchestrates one
// request/response cycle: filter compilation, count, windowed fetch, favorite
// aggregation, view tracking on detail lookups, ranking, and response shaping.
type catalogService struct {
	repo     domain.PackageRepository
	settings domain.SettingsService
	tracker  *ViewTracker
	now      func() time.Time
}

// NewCatalogService creates a CatalogService with the given collaborators.
func NewCatalogService(repo domain.PackageRepository, settings domain.SettingsService, tracker *ViewTracker) domain.CatalogService {
	return &catalogService{
		repo:     repo,
		settings: settings,
		tracker:  tracker,
		now:      time.Now,
	}
}

// ListPackages answers a listing request.
//
// The count query and the windowed fetch share one compiled filter, so the
// reported total always matches what the filter produces. Ranking runs after
// windowing: pin/verified priority only reorders within the fetched window.
// That mirrors the established listing contract; widening it to cross-page
// ordering would change pagination semantics for existing callers.
func (s *catalogService) ListPackages(ctx context.Context, q domain.PackageQuery) (*domain.PackageList, error) {
	now := s.now()

	page := pkg.NormalizePage(q.Page)
	pageSize := pkg.NormalizePageSize(q.PageSize)
	if q.Limit > 0 {
		// Admin-style flat query: one window from the top.
		page, pageSize = 1, pkg.NormalizePageSize(q.Limit)
	}

	var travelID uint
	if username := strings.TrimSpace(q.Username); username != "" {
		travel, err := s.repo.GetTravelByUsername(ctx, username)
		if err != nil {
			if domain.IsNotFound(err) {
				// Unknown owner is a normal state, not an error.
				return emptyList(page, pageSize), nil
			}
			return nil, err
		}
		travelID = travel.ID
	}

	f := buildFilter(q, travelID, now)
	if f.Slug != "" {
		// Detail lookup: the window is at most one record.
		page, pageSize = 1, 1
	}

	total, err := s.repo.CountPackages(ctx, f)
	if err != nil {
		return nil, err
	}

	offset, limit := pkg.Window(page, pageSize)
	packages, err := s.repo.ListPackages(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(packages))
	for i := range packages {
		ids[i] = packages[i].ID
	}
	favorites, err := s.repo.CountFavorites(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range packages {
		packages[i].FavoriteCount = favorites[packages[i].ID]
	}

	if f.Slug != "" && len(packages) == 1 {
		s.tracker.Track(ctx, packages[0].ID, q.ClientIP, q.UserAgent)
	}

	if q.SimpleSort {
		rankSimple(packages)
	} else {
		rank(packages, s.settings.RankConfig(ctx), now)
	}

	items := make([]domain.PackageDetail, 0, len(packages))
	for i := range packages {
		items = append(items, toDetail(&packages[i]))
	}

	return &domain.PackageList{
		Items:      items,
		Pagination: pkg.NewPagination(total, page, pageSize),
	}, nil
}

// CreatePackage validates input, derives pricing from priceOptions, generates
// a unique slug, and persists the package under the owning travel's quota.
func (s *catalogService) CreatePackage(ctx context.Context, in domain.CreatePackageInput) (*domain.Package, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if in.TravelID == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "travelId is required", nil)
	}

	price, originalPrice, cashback := in.Price, in.OriginalPrice, in.Cashback
	if len(in.PriceOptions) > 0 {
		// The lowest-priced option wins price/originalPrice; cashback is the
		// maximum across all options, independently of which row is cheapest.
		lowest := in.PriceOptions[0]
		cashback = in.PriceOptions[0].Cashback
		for _, opt := range in.PriceOptions[1:] {
			if opt.Price < lowest.Price {
				lowest = opt
			}
			if opt.Cashback > cashback {
				cashback = opt.Cashback
			}
		}
		price = lowest.Price
		originalPrice = lowest.OriginalPrice
		if originalPrice == 0 {
			originalPrice = lowest.Price
		}
	}

	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	p := &domain.Package{
		TravelID:       in.TravelID,
		Name:           name,
		Slug:           slug,
		Description:    in.Description,
		Category:       strings.ToLower(strings.TrimSpace(in.Category)),
		FlightType:     in.FlightType,
		DepartureCity:  in.DepartureCity,
		DepartureDate:  in.DepartureDate,
		DepartureMonth: int(in.DepartureDate.Month()),
		DurationDays:   in.DurationDays,
		Price:          price,
		OriginalPrice:  originalPrice,
		Cashback:       cashback,
		Quota:          in.Quota,
		QuotaAvailable: in.Quota,
		IsActive:       true,
		Facilities:     encodeJSON(in.Facilities),
		Includes:       encodeJSON(in.Includes),
		Excludes:       encodeJSON(in.Excludes),
		PriceOptions:   encodeJSON(in.PriceOptions),
		Itinerary:      encodeJSON(in.Itinerary),
	}

	if err := s.repo.CreatePackage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// uniqueSlug derives a URL slug from the package name, appending a numeric
// suffix until no existing package uses it.
func (s *catalogService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "package"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// encodeJSON serializes a sub-object list into its stored text form.
// nil slices are stored as empty arrays so decoding always yields a list.
func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func emptyList(page, pageSize int) *domain.PackageList {
	return &domain.PackageList{
		Items:      []domain.PackageDetail{},
		Pagination: pkg.NewPagination(0, page, pageSize),
	}
}
