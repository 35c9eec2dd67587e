package settings

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/simp-lee/travelmarket/internal/domain"
)

// settingsService implements domain.SettingsService. It reads the shared
// settings store on every request and hands the ranking engine an immutable
// snapshot, so the engine stays a pure function of (candidates, config).
type settingsService struct {
	repo   domain.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService with the given repository.
func NewSettingsService(repo domain.SettingsRepository, logger *slog.Logger) domain.SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsService{repo: repo, logger: logger}
}

// RankConfig returns the current ranking settings snapshot. Missing or
// malformed values fall back to the defaults (newest, verified priority on);
// a degraded settings store must not break listings.
func (s *settingsService) RankConfig(ctx context.Context) domain.RankConfig {
	cfg := domain.DefaultRankConfig()

	algorithm, err := s.repo.Get(ctx, domain.SettingSortAlgorithm)
	if err == nil {
		switch algorithm {
		case domain.SortNewest, domain.SortPopular, domain.SortRandom:
			cfg.Algorithm = algorithm
		}
	} else if !domain.IsNotFound(err) {
		s.logger.WarnContext(ctx, "read sort algorithm setting", slog.Any("error", err))
	}

	verified, err := s.repo.Get(ctx, domain.SettingVerifiedPriority)
	if err == nil {
		if v, parseErr := strconv.ParseBool(verified); parseErr == nil {
			cfg.VerifiedPriority = v
		}
	} else if !domain.IsNotFound(err) {
		s.logger.WarnContext(ctx, "read verified priority setting", slog.Any("error", err))
	}

	return cfg
}
