package tenant

import (
	"context"
)

// Service wraps company catalog rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Catalog lists the companies a user may select.
func (s *Service) Catalog(ctx context.Context, userID int64) ([]Company, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Select resolves a company for the user, enforcing the grant check.
func (s *Service) Select(ctx context.Context, userID, companyID int64) (*Company, error) {
	return s.repo.GetForUser(ctx, userID, companyID)
}
