// Package seed creates the default accounts at startup. Seeding is
// idempotent: accounts that already exist are left untouched, so restarts
// never reset balances or passwords.
package seed

import (
	"context"
	"fmt"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/configpkg"
	"github.com/ceobank/ceo-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// AdminUsername is the handle of the built-in administrator account.
const AdminUsername = "admin"

// AccountRepo provides the account reads and writes seeding needs.
type AccountRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
}

// User describes one account to seed.
type User struct {
	Username string
	Password string
	FullName string
}

// DefaultUsers is the demo roster created on a fresh database. Handles are
// numbered so operators can hand them out without consulting a list.
var DefaultUsers = []User{
	{Username: "user1", Password: "ChangeMe!1", FullName: "Demo User One"},
	{Username: "user2", Password: "ChangeMe!2", FullName: "Demo User Two"},
	{Username: "user3", Password: "ChangeMe!3", FullName: "Demo User Three"},
}

// Run creates the administrator and the given roster if they are missing.
func Run(ctx context.Context, repo AccountRepo, config configpkg.Config, users []User) error {
	l := zerolog.Ctx(ctx)

	created, err := ensure(ctx, repo, domain.CreateAccountParams{
		Username: AdminUsername,
		FullName: "Head Administrator",
		Balance:  config.AdminBalance,
		IsAdmin:  true,
	}, config.AdminPassword)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	if created {
		l.Info().Msg("seeded administrator account")
	}

	for _, u := range users {
		created, err := ensure(ctx, repo, domain.CreateAccountParams{
			Username: u.Username,
			FullName: u.FullName,
			Balance:  config.DefaultBalance,
		}, u.Password)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", u.Username, err)
		}

		if created {
			l.Info().Str("username", u.Username).Msg("seeded account")
		}
	}

	return nil
}

func ensure(ctx context.Context, repo AccountRepo, arg domain.CreateAccountParams, password string) (bool, error) {
	_, err := repo.GetByUsername(ctx, arg.Username)
	if err == nil {
		return false, nil
	}

	if err != domain.ErrAccountNotFound {
		return false, err
	}

	hashed, err := passpkg.Hash(password)
	if err != nil {
		return false, err
	}

	arg.HashedPassword = hashed

	if _, err := repo.Create(ctx, arg); err != nil {
		// Two instances racing on a fresh database may both miss the
		// existence check. The loser's conflict is not a failure.
		if err == domain.ErrUsernameAlreadyExists {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
