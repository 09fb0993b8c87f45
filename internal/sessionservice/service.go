// Package sessionservice manages login and credential issuance.
package sessionservice

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/configpkg"
	"github.com/ceobank/ceo-bank/pkg/passpkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// AccountRepo provides data access layer interface needed by session service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type AccountRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
}

// Service facilitates session service layer logic.
//
// The blocked flag gates login only: a credential issued before the account
// was blocked keeps working until it expires.
type Service struct {
	accounts AccountRepo
	config   configpkg.Config

	// TokenMaker verifies bearer credentials for the auth middleware and
	// the websocket registration handshake.
	TokenMaker tokenpkg.Maker
}

// New returns session service struct to manage logins and tokens.
func New(ar AccountRepo, config configpkg.Config, tokenMaker tokenpkg.Maker) *Service {
	return &Service{
		accounts:   ar,
		config:     config,
		TokenMaker: tokenMaker,
	}
}

// Login checks the credentials and issues a token bound to the account's id
// and admin flag with the configured expiry horizon.
func (s *Service) Login(ctx context.Context, username, password string) (string, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			// Same answer as a wrong password so the handle cannot be probed.
			return "", domain.Account{}, domain.ErrWrongPassword
		}

		return "", domain.Account{}, err
	}

	if err := passpkg.Check(password, account.HashedPassword); err != nil {
		l.Warn().Str("username", username).Msg("failed login attempt")
		return "", domain.Account{}, domain.ErrWrongPassword
	}

	if account.IsBlocked {
		return "", domain.Account{}, domain.ErrAccountBlocked
	}

	token, _, err := s.TokenMaker.CreateToken(account.ID, account.IsAdmin, s.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", domain.Account{}, err
	}

	return token, account, nil
}
