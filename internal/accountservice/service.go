// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	GetProfile(ctx context.Context, id int32) (domain.Profile, error)
	Update(ctx context.Context, arg domain.UpdateAccountParams) (domain.Account, error)
	List(ctx context.Context) ([]domain.AdminAccountRow, error)
}

// EntryRepo provides the ledger history read needed for the account view.
type EntryRepo interface {
	ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error)
}

// ItemRepo provides the catalog read needed for the account view.
type ItemRepo interface {
	ListByPopularity(ctx context.Context) ([]domain.Item, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo    Repo
	entries EntryRepo
	items   ItemRepo
}

// New returns account service struct to manage account business logic.
func New(ar Repo, er EntryRepo, ir ItemRepo) *Service {
	return &Service{
		repo:    ar,
		entries: er,
		items:   ir,
	}
}

// GetAppData returns everything one account's client needs after a full
// refresh signal: the profile, the ledger history newest first and the
// catalog sorted by popularity.
func (s *Service) GetAppData(ctx context.Context, accountID int32) (domain.AppData, error) {
	var data domain.AppData

	profile, err := s.repo.GetProfile(ctx, accountID)
	if err != nil {
		return data, err
	}

	entries, err := s.entries.ListByAccount(ctx, accountID)
	if err != nil {
		return data, err
	}

	items, err := s.items.ListByPopularity(ctx)
	if err != nil {
		return data, err
	}

	data.CurrentUser = profile
	data.Entries = entries
	data.ShopItems = items

	return data, nil
}

// CreateParams is the admin input to create an account.
type CreateParams struct {
	Username string
	Password string
	FullName string
	DOB      string
	Balance  string
}

// Create hashes the password and creates the account.
func (s *Service) Create(ctx context.Context, arg CreateParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	hashed, err := passpkg.Hash(arg.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	balance := arg.Balance
	if balance == "" {
		balance = "0"
	}

	return s.repo.Create(ctx, domain.CreateAccountParams{
		Username:       arg.Username,
		HashedPassword: hashed,
		FullName:       arg.FullName,
		DOB:            arg.DOB,
		Balance:        balance,
	})
}

// Update overwrites the account's editable fields; a non-empty newPassword
// is hashed and applied as well.
func (s *Service) Update(ctx context.Context, arg domain.UpdateAccountParams, newPassword string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if newPassword != "" {
		hashed, err := passpkg.Hash(newPassword)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}

		arg.HashedPassword = hashed
	}

	return s.repo.Update(ctx, arg)
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// List returns all non-admin accounts for the admin panel.
func (s *Service) List(ctx context.Context) ([]domain.AdminAccountRow, error) {
	return s.repo.List(ctx)
}
