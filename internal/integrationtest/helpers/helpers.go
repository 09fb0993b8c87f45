// Package helpers provides seeding helpers used in integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/ceobank/ceo-bank/internal/accountrepo"
	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/entryrepo"
	"github.com/ceobank/ceo-bank/internal/itemrepo"
	"github.com/ceobank/ceo-bank/internal/teamrepo"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/passpkg"
	"github.com/ceobank/ceo-bank/pkg/randompkg"
)

// SeedAccount creates an account with a 1000 balance.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface) domain.Account {
	t.Helper()

	return SeedAccountWithBalance(t, db, "1000")
}

// SeedAccountWithBalance creates an account with the given balance.
func SeedAccountWithBalance(t *testing.T, db dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	repo := accountrepo.NewRepoPGS(db)

	account, err := repo.Create(context.Background(), domain.CreateAccountParams{
		Username:       randompkg.Username(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.FullName(),
		DOB:            "2000-01-01",
		Balance:        balance,
	})
	if err != nil {
		t.Fatalf("accountRepo.Create() returned error: %v", err)
	}

	return account
}

// SeedTeam creates a team with a random name.
func SeedTeam(t *testing.T, db dbpkg.SQLInterface) domain.Team {
	t.Helper()

	repo := teamrepo.NewRepoPGS(db)

	team, err := repo.Create(context.Background(), randompkg.TeamName())
	if err != nil {
		t.Fatalf("teamRepo.Create() returned error: %v", err)
	}

	return team
}

// SeedItem creates a shop item with the given price and stock.
func SeedItem(t *testing.T, db dbpkg.SQLInterface, price string, quantity int32) domain.Item {
	t.Helper()

	repo := itemrepo.NewRepoPGS(db)

	item, err := repo.Create(context.Background(), domain.CreateItemParams{
		Name:     randompkg.String(12),
		Price:    price,
		Quantity: quantity,
		Category: "test",
	})
	if err != nil {
		t.Fatalf("itemRepo.Create() returned error: %v", err)
	}

	return item
}

// SeedDiscountedItem creates a shop item carrying a discount price.
func SeedDiscountedItem(t *testing.T, db dbpkg.SQLInterface, price, discountPrice string, quantity int32) domain.Item {
	t.Helper()

	repo := itemrepo.NewRepoPGS(db)

	item, err := repo.Create(context.Background(), domain.CreateItemParams{
		Name:          randompkg.String(12),
		Price:         price,
		DiscountPrice: &discountPrice,
		Quantity:      quantity,
		Category:      "test",
	})
	if err != nil {
		t.Fatalf("itemRepo.Create() returned error: %v", err)
	}

	return item
}

// SeedEntry creates a ledger entry for the given account.
func SeedEntry(t *testing.T, db dbpkg.SQLInterface, amount string, accountID int32) domain.Entry {
	t.Helper()

	repo := entryrepo.NewRepoPGS(db)

	entry, err := repo.Create(context.Background(), entryrepo.CreateEntryParams{
		AccountID:    accountID,
		Type:         domain.EntryTypeTransfer,
		Amount:       amount,
		Counterparty: randompkg.FullName(),
	})
	if err != nil {
		t.Fatalf("entryRepo.Create() returned error: %v", err)
	}

	return entry
}
