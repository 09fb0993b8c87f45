// Package ledgerrepo executes the balance-and-inventory transactions.
// Every exported Tx method runs as one database transaction: either every
// read-modify-write step lands, or none does.
package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/ceobank/ceo-bank/internal/accountrepo"
	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/entryrepo"
	"github.com/ceobank/ceo-bank/internal/itemrepo"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates ledger transaction repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS with a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// repos bundles the entity repositories bound to one transaction.
type repos struct {
	accounts *accountrepo.RepoPGS
	entries  *entryrepo.RepoPGS
	items    *itemrepo.RepoPGS
}

func newRepos(tx dbpkg.SQLInterface) repos {
	return repos{
		accounts: accountrepo.NewRepoPGS(tx),
		entries:  entryrepo.NewRepoPGS(tx),
		items:    itemrepo.NewRepoPGS(tx),
	}
}

// execTx executes a function within a database transaction.
func (r *RepoPGS) execTx(ctx context.Context, fn func(repos) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := fn(newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// TransferTxParams contains the resolved input of the transfer transaction.
type TransferTxParams struct {
	FromAccountID int32
	ToAccountID   int32
	Amount        string
	Comment       string
}

// TransferTx moves money between two accounts.
//
// It debits the source with a zero-floor guard, credits the destination and
// appends both ledger legs within a single database transaction. Each leg is
// tagged with the counterparty's display name as of this moment; history is
// not retroactively renamed.
func (r *RepoPGS) TransferTx(ctx context.Context, arg TransferTxParams) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	err := r.execTx(ctx, func(q repos) error {
		var err error

		// To avoid deadlocks execute balance updates in consistent id order.
		if arg.FromAccountID < arg.ToAccountID {
			result.FromAccount, err = q.accounts.Spend(ctx, arg.Amount, arg.FromAccountID)
			if err != nil {
				return err
			}

			result.ToAccount, err = q.accounts.AddBalance(ctx, arg.Amount, arg.ToAccountID)
			if err != nil {
				return err
			}
		} else {
			result.ToAccount, err = q.accounts.AddBalance(ctx, arg.Amount, arg.ToAccountID)
			if err != nil {
				return err
			}

			result.FromAccount, err = q.accounts.Spend(ctx, arg.Amount, arg.FromAccountID)
			if err != nil {
				return err
			}
		}

		result.FromEntry, err = q.entries.Create(ctx, entryrepo.CreateEntryParams{
			AccountID:    arg.FromAccountID,
			Type:         domain.EntryTypeTransfer,
			Amount:       "-" + arg.Amount,
			Counterparty: result.ToAccount.FullName,
			Comment:      arg.Comment,
		})
		if err != nil {
			return err
		}

		result.ToEntry, err = q.entries.Create(ctx, entryrepo.CreateEntryParams{
			AccountID:    arg.ToAccountID,
			Type:         domain.EntryTypeTransfer,
			Amount:       arg.Amount,
			Counterparty: result.FromAccount.FullName,
			Comment:      arg.Comment,
		})

		return err
	})

	return result, err
}

// PurchaseTx charges an account for a cart of shop items.
//
// Every cart line is validated against a locked item row before any write:
// an unknown item or short stock fails the whole cart, never a part of it.
// Only then the account is debited once for the total, each item's stock is
// decremented and popularity incremented, and one ledger entry is appended.
func (r *RepoPGS) PurchaseTx(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseTxResult, error) {
	var result domain.PurchaseTxResult

	// To avoid deadlocks lock item rows in consistent id order, as
	// TransferTx does for account rows.
	cart := make([]domain.CartLine, len(arg.Cart))
	copy(cart, arg.Cart)
	sort.Slice(cart, func(i, j int) bool { return cart[i].ItemID < cart[j].ItemID })

	err := r.execTx(ctx, func(q repos) error {
		total := decimal.Zero

		for _, line := range cart {
			item, err := q.items.GetForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}

			if item.Quantity < line.Quantity {
				return domain.ErrOutOfStock
			}

			price, err := effectivePrice(item)
			if err != nil {
				return err
			}

			total = total.Add(price.Mul(decimal.NewFromInt32(line.Quantity)))
		}

		result.Total = total.String()

		account, err := q.accounts.Spend(ctx, result.Total, arg.AccountID)
		if err != nil {
			return err
		}
		result.Account = account

		for _, line := range cart {
			if _, err := q.items.Sell(ctx, line.Quantity, line.ItemID); err != nil {
				return err
			}
		}

		result.Entry, err = q.entries.Create(ctx, entryrepo.CreateEntryParams{
			AccountID:    arg.AccountID,
			Type:         domain.EntryTypePurchase,
			Amount:       "-" + result.Total,
			Counterparty: domain.StoreCounterparty,
			Comment:      fmt.Sprintf("Purchase of %d items", len(arg.Cart)),
		})

		return err
	})

	return result, err
}

// effectivePrice returns the discounted price when present and lower,
// otherwise the list price.
func effectivePrice(item domain.Item) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return decimal.Zero, errorspkg.ErrInternal
	}

	if item.DiscountPrice == nil {
		return price, nil
	}

	discount, err := decimal.NewFromString(*item.DiscountPrice)
	if err != nil {
		return decimal.Zero, errorspkg.ErrInternal
	}

	if discount.LessThan(price) {
		return discount, nil
	}

	return price, nil
}

// AdjustTx unconditionally applies a signed amount to the target's balance
// and appends one admin_adjustment entry. Adjustments may zero or overdraw
// an account; only an unknown target fails.
func (r *RepoPGS) AdjustTx(ctx context.Context, arg domain.AdjustParams) (domain.Account, domain.Entry, error) {
	var (
		account domain.Account
		entry   domain.Entry
	)

	err := r.execTx(ctx, func(q repos) error {
		var err error

		account, err = q.accounts.AddBalance(ctx, arg.Amount, arg.AccountID)
		if err != nil {
			return err
		}

		entry, err = q.entries.Create(ctx, entryrepo.CreateEntryParams{
			AccountID:    arg.AccountID,
			Type:         domain.EntryTypeAdminAdjustment,
			Amount:       arg.Amount,
			Counterparty: arg.AdminName,
			Comment:      arg.Comment,
		})

		return err
	})

	return account, entry, err
}

// BulkAdjustTx applies the same signed adjustment to every member of a team
// as one unit: all members updated or none. It returns the affected account
// ids. A team with no members fails the whole operation.
func (r *RepoPGS) BulkAdjustTx(ctx context.Context, arg domain.BulkAdjustParams) ([]int32, error) {
	var ids []int32

	err := r.execTx(ctx, func(q repos) error {
		var err error

		// Member rows are locked in id order by the per-member updates.
		ids, err = q.accounts.ListIDsByTeam(ctx, arg.TeamID)
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			return domain.ErrEmptyTeam
		}

		counterparty := fmt.Sprintf("Bulk operation (%s)", arg.AdminName)

		for _, id := range ids {
			if _, err := q.accounts.AddBalance(ctx, arg.Amount, id); err != nil {
				return err
			}

			if _, err := q.entries.Create(ctx, entryrepo.CreateEntryParams{
				AccountID:    id,
				Type:         domain.EntryTypeAdminAdjustment,
				Amount:       arg.Amount,
				Counterparty: counterparty,
				Comment:      arg.Comment,
			}); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ids, nil
}
