// Package teamservice manages business logic layer of teams.
package teamservice

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
)

// Repo provides data access layer interface needed by team service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package teamservice
type Repo interface {
	Create(ctx context.Context, name string) (domain.Team, error)
	Get(ctx context.Context, id int32) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Delete(ctx context.Context, id int32) error
}

// AccountRepo provides the member assignment needed on team creation.
type AccountRepo interface {
	SetTeam(ctx context.Context, teamID int32, accountIDs []int32) error
}

// Service facilitates team service layer logic.
type Service struct {
	repo     Repo
	accounts AccountRepo
}

// New returns team service struct to manage team business logic.
func New(tr Repo, ar AccountRepo) *Service {
	return &Service{
		repo:     tr,
		accounts: ar,
	}
}

// Create creates the team and assigns the initial members to it.
func (s *Service) Create(ctx context.Context, name string, memberIDs []int32) (domain.Team, error) {
	team, err := s.repo.Create(ctx, name)
	if err != nil {
		return team, err
	}

	if len(memberIDs) > 0 {
		if err := s.accounts.SetTeam(ctx, team.ID, memberIDs); err != nil {
			return team, err
		}
	}

	return team, nil
}

// List returns all teams.
func (s *Service) List(ctx context.Context) ([]domain.Team, error) {
	return s.repo.List(ctx)
}

// Delete removes the team; its members revert to no team.
func (s *Service) Delete(ctx context.Context, id int32) error {
	return s.repo.Delete(ctx, id)
}
