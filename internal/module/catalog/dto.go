package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// CreatePackageRequest represents the input for creating a new package.
// Top-level price fields are overridden when priceOptions is supplied.
type CreatePackageRequest struct {
	TravelID      uint                 `json:"travelId" binding:"required"`
	Name          string               `json:"name" binding:"required,min=3,max=255"`
	Description   string               `json:"description"`
	Category      string               `json:"category" binding:"required"`
	FlightType    string               `json:"flightType"`
	DepartureCity string               `json:"departureCity"`
	DepartureDate time.Time            `json:"departureDate"`
	DurationDays  int                  `json:"durationDays" binding:"omitempty,min=1"`
	Price         int64                `json:"price" binding:"omitempty,min=0"`
	OriginalPrice int64                `json:"originalPrice" binding:"omitempty,min=0"`
	Cashback      int64                `json:"cashback" binding:"omitempty,min=0"`
	Quota         int                  `json:"quota" binding:"omitempty,min=0"`
	Facilities    []string             `json:"facilities"`
	Includes      []string             `json:"includes"`
	Excludes      []string             `json:"excludes"`
	PriceOptions  []domain.PriceOption `json:"priceOptions"`
	Itinerary     []domain.ItineraryDay `json:"itinerary"`
}

// Input converts the request into a domain creation input.
func (r CreatePackageRequest) Input() domain.CreatePackageInput {
	return domain.CreatePackageInput{
		TravelID:      r.TravelID,
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		FlightType:    r.FlightType,
		DepartureCity: r.DepartureCity,
		DepartureDate: r.DepartureDate,
		DurationDays:  r.DurationDays,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Cashback:      r.Cashback,
		Quota:         r.Quota,
		Facilities:    r.Facilities,
		Includes:      r.Includes,
		Excludes:      r.Excludes,
		PriceOptions:  r.PriceOptions,
		Itinerary:     r.Itinerary,
	}
}

// parsePackageQuery extracts listing parameters from the query string.
// Numeric parameters are parsed tolerantly: malformed values mean "unset".
func parsePackageQuery(c *gin.Context) domain.PackageQuery {
	return domain.PackageQuery{
		Category:        c.Query("category"),
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		Username:        c.Query("username"),
		Slug:            c.Query("slug"),
		IncludeInactive: c.Query("includeInactive") == "true",
		Period:          c.Query("period"),
		SimpleSort:      c.Query("simpleSort") == "true",
		Page:            queryInt(c, "page"),
		PageSize:        queryInt(c, "pageSize"),
		Limit:           queryInt(c, "limit"),
		DepartureMonth:  queryInt(c, "departureMonth"),
		MinDuration:     queryInt(c, "minDuration"),
		MaxDuration:     queryInt(c, "maxDuration"),
		MinPrice:        queryInt64(c, "minPrice"),
		MaxPrice:        queryInt64(c, "maxPrice"),
		ClientIP:        forwardedIP(c),
		UserAgent:       c.Request.UserAgent(),
	}
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// forwardedIP returns the first entry of the X-Forwarded-For chain, or
// "unknown" when none is present.
func forwardedIP(c *gin.Context) string {
	chain := c.GetHeader("X-Forwarded-For")
	if chain == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(chain, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	return first
}

// toDetail converts a fetched package into its response form: JSON text
// columns decoded and the owning travel's public fields attached.
func toDetail(p *domain.Package) domain.PackageDetail {
	return domain.PackageDetail{
		Package:      *p,
		Facilities:   decodeStringList(p.Facilities),
		Includes:     decodeStringList(p.Includes),
		Excludes:     decodeStringList(p.Excludes),
		PriceOptions: decodePriceOptions(p.PriceOptions),
		Itinerary:    decodeItinerary(p.Itinerary),
		Travel:       p.Travel.Public(),
	}
}

// decodeStringList decodes a JSON-encoded string array. Malformed or empty
// input degrades to an empty list rather than failing the request.
func decodeStringList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func decodePriceOptions(raw string) []domain.PriceOption {
	if strings.TrimSpace(raw) == "" {
		return []domain.PriceOption{}
	}
	var out []domain.PriceOption
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []domain.PriceOption{}
	}
	return out
}

func decodeItinerary(raw string) []domain.ItineraryDay {
	if strings.TrimSpace(raw) == "" {
		return []domain.ItineraryDay{}
	}
	var out []domain.ItineraryDay
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []domain.ItineraryDay{}
	}
	return out
}
