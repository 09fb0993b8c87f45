// Package itemservice manages business logic layer of shop items.
package itemservice

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
)

// Repo provides data access layer interface needed by item service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package itemservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateItemParams) (domain.Item, error)
	Update(ctx context.Context, arg domain.UpdateItemParams) (domain.Item, error)
	Delete(ctx context.Context, id int32) error
	ListByName(ctx context.Context) ([]domain.Item, error)
}

// Service facilitates shop item service layer logic.
type Service struct {
	repo Repo
}

// New returns item service struct to manage shop item business logic.
func New(ir Repo) *Service {
	return &Service{repo: ir}
}

// Create creates a shop item.
func (s *Service) Create(ctx context.Context, arg domain.CreateItemParams) (domain.Item, error) {
	return s.repo.Create(ctx, arg)
}

// Update overwrites a shop item.
func (s *Service) Update(ctx context.Context, arg domain.UpdateItemParams) (domain.Item, error) {
	return s.repo.Update(ctx, arg)
}

// Delete removes a shop item.
func (s *Service) Delete(ctx context.Context, id int32) error {
	return s.repo.Delete(ctx, id)
}

// List returns the catalog ordered by name for the admin panel.
func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListByName(ctx)
}
