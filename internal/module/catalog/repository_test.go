package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the catalog tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Travel{},
		&domain.Package{},
		&domain.Favorite{},
		&domain.PackageView{},
		&domain.Setting{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTravel(t *testing.T, db *gorm.DB, username string, active, verified bool) *domain.Travel {
	t.Helper()
	travel := &domain.Travel{
		Name:         username + " travel",
		Username:     username,
		IsActive:     active,
		IsVerified:   verified,
		PackageLimit: 10,
	}
	if err := db.Create(travel).Error; err != nil {
		t.Fatalf("seed travel %s: %v", username, err)
	}
	return travel
}

func seedPackage(t *testing.T, db *gorm.DB, travel *domain.Travel, slug string, mutate func(*domain.Package)) *domain.Package {
	t.Helper()
	p := &domain.Package{
		TravelID:      travel.ID,
		Name:          slug,
		Slug:          slug,
		Category:      "umrah",
		DepartureCity: "Jakarta",
		DurationDays:  9,
		Price:         20000000,
		IsActive:      true,
	}
	if mutate != nil {
		mutate(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed package %s: %v", slug, err)
	}
	return p
}

func TestCountAndList_SameFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	for i := 1; i <= 5; i++ {
		seedPackage(t, db, travel, fmt.Sprintf("umrah-%d", i), nil)
	}
	seedPackage(t, db, travel, "inactive-one", func(p *domain.Package) { p.IsActive = false })

	f := domain.PackageFilter{}
	total, err := repo.CountPackages(ctx, f)
	if err != nil {
		t.Fatalf("CountPackages: %v", err)
	}
	if total != 5 {
		t.Errorf("total=%d; want 5 (inactive excluded)", total)
	}

	items, err := repo.ListPackages(ctx, f, 0, 3)
	if err != nil {
		t.Fatalf("ListPackages: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("window=%d; want 3", len(items))
	}
	for _, p := range items {
		if p.Travel.ID == 0 {
			t.Errorf("package %s missing preloaded travel", p.Slug)
		}
	}
}

func TestList_IncludeInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, false)
	seedPackage(t, db, travel, "active-one", nil)
	seedPackage(t, db, travel, "inactive-one", func(p *domain.Package) { p.IsActive = false })

	total, err := repo.CountPackages(ctx, domain.PackageFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("CountPackages: %v", err)
	}
	if total != 2 {
		t.Errorf("total=%d; want 2 with includeInactive", total)
	}
}

func TestList_InactiveTravelHidesPackages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	dormant := seedTravel(t, db, "dormant", false, false)
	seedPackage(t, db, dormant, "orphaned", nil) // package active, owner inactive

	total, err := repo.CountPackages(ctx, domain.PackageFilter{})
	if err != nil {
		t.Fatalf("CountPackages: %v", err)
	}
	if total != 0 {
		t.Errorf("total=%d; want 0 when owning travel is inactive", total)
	}
}

func TestList_FilterCriteria(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	amanah := seedTravel(t, db, "amanah", true, true)
	barokah := seedTravel(t, db, "barokah", true, false)

	seedPackage(t, db, amanah, "umrah-ramadhan", func(p *domain.Package) {
		p.Category = "umrah"
		p.DepartureCity = "Jakarta"
		p.DurationDays = 9
		p.Price = 25000000
		p.DepartureMonth = 3
	})
	seedPackage(t, db, amanah, "hajj-furoda", func(p *domain.Package) {
		p.Category = "hajj"
		p.DepartureCity = "Surabaya"
		p.DurationDays = 25
		p.Price = 90000000
		p.DepartureMonth = 6
	})
	seedPackage(t, db, barokah, "turkey-tour", func(p *domain.Package) {
		p.Category = "tour"
		p.Name = "Turkey Winter Tour"
		p.Description = "Cappadocia and Istanbul"
		p.DepartureCity = "Jakarta"
		p.DurationDays = 8
		p.Price = 15000000
		p.DepartureMonth = 12
	})

	tests := []struct {
		name   string
		filter domain.PackageFilter
		want   int64
	}{
		{"category", domain.PackageFilter{Category: "hajj"}, 1},
		{"location_substring", domain.PackageFilter{Location: "jakar"}, 2},
		{"travel_id", domain.PackageFilter{TravelID: barokah.ID}, 1},
		{"slug", domain.PackageFilter{Slug: "hajj-furoda"}, 1},
		{"departure_month", domain.PackageFilter{DepartureMonth: 12}, 1},
		{"duration_band", domain.PackageFilter{MinDuration: 9, MaxDuration: 20}, 1},
		{"price_band", domain.PackageFilter{MinPrice: 20000000, MaxPrice: 30000000}, 1},
		{"search_package_name", domain.PackageFilter{Search: "winter"}, 1},
		{"search_description", domain.PackageFilter{Search: "cappadocia"}, 1},
		{"search_travel_username", domain.PackageFilter{Search: "barokah"}, 1},
		{"search_departure_city", domain.PackageFilter{Search: "surabaya"}, 1},
		{"search_no_match", domain.PackageFilter{Search: "maldives"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := repo.CountPackages(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountPackages: %v", err)
			}
			if total != tt.want {
				t.Errorf("total=%d; want %d", total, tt.want)
			}
		})
	}
}

func TestList_CreatedAfterCutoff(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	old := seedPackage(t, db, travel, "old-package", nil)
	seedPackage(t, db, travel, "fresh-package", nil)

	// Backdate the old package past the cutoff.
	lastMonth := time.Now().AddDate(0, -2, 0)
	if err := db.Model(old).UpdateColumn("created_at", lastMonth).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	cutoff := startOfDay(time.Now().AddDate(0, -1, 0))
	total, err := repo.CountPackages(ctx, domain.PackageFilter{CreatedAfter: &cutoff})
	if err != nil {
		t.Fatalf("CountPackages: %v", err)
	}
	if total != 1 {
		t.Errorf("total=%d; want 1 within the window", total)
	}
}

func TestCountFavorites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	popular := seedPackage(t, db, travel, "popular-one", nil)
	quiet := seedPackage(t, db, travel, "quiet-one", nil)

	for userID := uint(1); userID <= 3; userID++ {
		if err := db.Create(&domain.Favorite{UserID: userID, PackageID: popular.ID}).Error; err != nil {
			t.Fatalf("seed favorite: %v", err)
		}
	}

	counts, err := repo.CountFavorites(ctx, []uint{popular.ID, quiet.ID})
	if err != nil {
		t.Fatalf("CountFavorites: %v", err)
	}
	if counts[popular.ID] != 3 {
		t.Errorf("popular count=%d; want 3", counts[popular.ID])
	}
	if _, ok := counts[quiet.ID]; ok {
		t.Error("zero-favorite package should be absent from the grouped result")
	}
}

func TestCountFavorites_EmptyCandidates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)

	counts, err := repo.CountFavorites(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountFavorites: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("counts=%v; want empty", counts)
	}
}

func TestIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	p := seedPackage(t, db, travel, "viewed-one", nil)

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViews(ctx, p.ID); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
	}

	var got domain.Package
	if err := db.First(&got, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("views=%d; want 3", got.Views)
	}
}

func TestIncrementViews_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)

	err := repo.IncrementViews(context.Background(), 999)
	if !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePackageView(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	p := seedPackage(t, db, travel, "viewed-one", nil)

	v := &domain.PackageView{PackageID: p.ID, IPAddress: "10.0.0.1", UserAgent: "test-agent"}
	if err := repo.CreatePackageView(ctx, v); err != nil {
		t.Fatalf("CreatePackageView: %v", err)
	}

	var count int64
	db.Model(&domain.PackageView{}).Where("package_id = ?", p.ID).Count(&count)
	if count != 1 {
		t.Errorf("view rows=%d; want 1", count)
	}
}

func TestCreatePackage_QuotaAndCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	if err := db.Model(travel).UpdateColumn("package_limit", 2).Error; err != nil {
		t.Fatalf("set limit: %v", err)
	}

	for i := 1; i <= 2; i++ {
		p := &domain.Package{TravelID: travel.ID, Name: fmt.Sprintf("p%d", i), Slug: fmt.Sprintf("p-%d", i), IsActive: true}
		if err := repo.CreatePackage(ctx, p); err != nil {
			t.Fatalf("CreatePackage %d: %v", i, err)
		}
	}

	// Third create must hit the quota without writing anything.
	p := &domain.Package{TravelID: travel.ID, Name: "p3", Slug: "p-3", IsActive: true}
	err := repo.CreatePackage(ctx, p)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error on quota exhaustion, got %v", err)
	}

	var packageCount int64
	db.Model(&domain.Package{}).Count(&packageCount)
	if packageCount != 2 {
		t.Errorf("packages=%d; want 2 (no partial record)", packageCount)
	}

	var got domain.Travel
	db.First(&got, travel.ID)
	if got.PackageUsed != 2 {
		t.Errorf("packageUsed=%d; want 2", got.PackageUsed)
	}
}

func TestCreatePackage_UnlimitedQuota(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	if err := db.Model(travel).UpdateColumn("package_limit", domain.UnlimitedPackageLimit).Error; err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if err := db.Model(travel).UpdateColumn("package_used", 5000).Error; err != nil {
		t.Fatalf("set used: %v", err)
	}

	p := &domain.Package{TravelID: travel.ID, Name: "p", Slug: "p-unlimited", IsActive: true}
	if err := repo.CreatePackage(ctx, p); err != nil {
		t.Fatalf("CreatePackage with unlimited quota: %v", err)
	}
}

func TestSlugExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	travel := seedTravel(t, db, "amanah", true, true)
	seedPackage(t, db, travel, "taken-slug", nil)

	exists, err := repo.SlugExists(ctx, "taken-slug")
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected taken-slug to exist")
	}

	exists, err = repo.SlugExists(ctx, "free-slug")
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("expected free-slug to be available")
	}
}

func TestGetTravelByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	seedTravel(t, db, "amanah", true, true)

	travel, err := repo.GetTravelByUsername(ctx, "amanah")
	if err != nil {
		t.Fatalf("GetTravelByUsername: %v", err)
	}
	if travel.Username != "amanah" {
		t.Errorf("username=%q; want amanah", travel.Username)
	}

	_, err = repo.GetTravelByUsername(ctx, "ghost")
	if !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
