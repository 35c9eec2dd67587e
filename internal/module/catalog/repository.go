package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
	"github.com/simp-lee/travelmarket/internal/pkg"
)

// catalogRepository implements domain.PackageRepository using GORM.
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a PackageRepository backed by the given GORM database.
func NewCatalogRepository(db *gorm.DB) domain.PackageRepository {
	return &catalogRepository{db: db}
}

// CreatePackage inserts a package and bumps the owning travel's packageUsed
// counter in one transaction. Quota exhaustion aborts before anything is
// written. packageUsed counts packages ever created and is never decremented.
func (r *catalogRepository) CreatePackage(ctx context.Context, p *domain.Package) error {
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var travel domain.Travel
		if err := tx.First(&travel, p.TravelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewAppError(domain.CodeValidation, "travel not found", nil)
			}
			return err
		}

		if travel.PackageLimit != domain.UnlimitedPackageLimit && travel.PackageUsed >= travel.PackageLimit {
			return domain.NewAppError(domain.CodeValidation, "package quota exhausted", nil)
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Travel{}).
			Where("id = ?", travel.ID).
			UpdateColumn("package_used", gorm.Expr("package_used + 1")).Error
	})
	return mapError(err)
}

// SlugExists reports whether any package already uses the given slug.
func (r *catalogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Package{}).
		Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// CountPackages runs a predicate-only count with the same compiled filter the
// windowed fetch uses, so reported totals always match the filter.
func (r *catalogRepository) CountPackages(ctx context.Context, f domain.PackageFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Package{}).
		Scopes(filterScope(f)).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// ListPackages fetches one unsorted window of packages matching the filter,
// with the owning travel loaded. Ranking happens afterwards in memory.
func (r *catalogRepository) ListPackages(ctx context.Context, f domain.PackageFilter, offset, limit int) ([]domain.Package, error) {
	var packages []domain.Package
	if err := r.db.WithContext(ctx).Model(&domain.Package{}).
		Scopes(filterScope(f)).
		Select("packages.*").
		Offset(offset).Limit(limit).
		Preload("Travel").
		Find(&packages).Error; err != nil {
		return nil, mapError(err)
	}
	return packages, nil
}

// CountFavorites groups favorite rows by package for the candidate ids.
// IDs with no favorites are absent from the result; callers default them to 0.
// The aggregation takes no locks, so a concurrently added favorite may or may
// not be reflected.
func (r *catalogRepository) CountFavorites(ctx context.Context, packageIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(packageIDs))
	if len(packageIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PackageID uint
		Total     int64
	}
	if err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Select("package_id, COUNT(*) AS total").
		Where("package_id IN ?", packageIDs).
		Group("package_id").
		Scan(&rows).Error; err != nil {
		return nil, mapError(err)
	}

	for _, row := range rows {
		counts[row.PackageID] = row.Total
	}
	return counts, nil
}

// IncrementViews bumps the views counter with an atomic SQL update, so
// concurrent detail views never lose increments.
func (r *catalogRepository) IncrementViews(ctx context.Context, packageID uint) error {
	result := r.db.WithContext(ctx).Model(&domain.Package{}).
		Where("id = ?", packageID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePackageView appends one immutable view-event record.
func (r *catalogRepository) CreatePackageView(ctx context.Context, v *domain.PackageView) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetTravelByID retrieves a travel by its primary key.
func (r *catalogRepository) GetTravelByID(ctx context.Context, id uint) (*domain.Travel, error) {
	var travel domain.Travel
	if err := r.db.WithContext(ctx).First(&travel, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &travel, nil
}

// GetTravelByUsername retrieves a travel by its unique username.
func (r *catalogRepository) GetTravelByUsername(ctx context.Context, username string) (*domain.Travel, error) {
	var travel domain.Travel
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).First(&travel).Error; err != nil {
		return nil, mapError(err)
	}
	return &travel, nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
