package settings

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), "nope")
	if !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Set(ctx, domain.SettingSortAlgorithm, domain.SortPopular); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := repo.Get(ctx, domain.SettingSortAlgorithm)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != domain.SortPopular {
		t.Errorf("value=%q; want %q", got, domain.SortPopular)
	}
}

func TestSettingsRepository_SetOverwrites(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := repo.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Errorf("value=%q; want second", got)
	}
}

func TestSettingsRepository_SetEmptyKey(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	err := repo.Set(context.Background(), "  ", "v")
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
