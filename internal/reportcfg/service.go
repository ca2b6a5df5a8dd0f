package reportcfg

import (
	"context"
	"strconv"
)

// Service serves report configurations through the versioned cache.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a new Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get returns the configuration for one report screen of a company.
func (s *Service) Get(ctx context.Context, companyID int64, name string) (*ReportConfig, error) {
	key, err := s.cache.BuildKey(ctx, "reportcfg", strconv.FormatInt(companyID, 10), name)
	if err != nil {
		return nil, err
	}
	var cfg ReportConfig
	err = s.cache.FetchJSON(ctx, key, &cfg, func(ctx context.Context) (any, error) {
		loaded, err := s.repo.GetByName(ctx, companyID, name)
		if err != nil {
			return nil, err
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Names lists the report screens configured for a company.
func (s *Service) Names(ctx context.Context, companyID int64) ([]string, error) {
	key, err := s.cache.BuildKey(ctx, "reportcfg", strconv.FormatInt(companyID, 10), "_names")
	if err != nil {
		return nil, err
	}
	var names []string
	err = s.cache.FetchJSON(ctx, key, &names, func(ctx context.Context) (any, error) {
		return s.repo.ListNames(ctx, companyID)
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Companies lists every company carrying report configurations. Used by the
// nightly warmup job, so it reads straight from the repository.
func (s *Service) Companies(ctx context.Context) ([]int64, error) {
	return s.repo.CompanyIDs(ctx)
}

// Save stores a configuration and invalidates cached entries.
func (s *Service) Save(ctx context.Context, companyID int64, name string, cfg ReportConfig) error {
	if err := s.repo.Upsert(ctx, companyID, name, cfg); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}
