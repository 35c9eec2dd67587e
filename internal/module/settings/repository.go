package settings

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// settingsRepository implements domain.SettingsRepository using GORM.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a SettingsRepository backed by the given GORM database.
func NewSettingsRepository(db *gorm.DB) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the value stored under key, or ErrNotFound when absent.
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting domain.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	return setting.Value, nil
}

// Set upserts the value stored under key.
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.NewAppError(domain.CodeValidation, "setting key is required", nil)
	}

	setting := domain.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).Save(&setting).Error
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	return nil
}
