//go:build integration

package ledgerrepo_test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/ceobank/ceo-bank/internal/accountrepo"
	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/entryrepo"
	"github.com/ceobank/ceo-bank/internal/integrationtest"
	"github.com/ceobank/ceo-bank/internal/integrationtest/helpers"
	"github.com/ceobank/ceo-bank/internal/itemrepo"
	"github.com/ceobank/ceo-bank/internal/ledgerrepo"
	"github.com/ceobank/ceo-bank/pkg/configpkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func requireAmountEqual(t *testing.T, want, got string) {
	t.Helper()

	wantDec, err := decimal.NewFromString(want)
	require.NoError(t, err)

	gotDec, err := decimal.NewFromString(got)
	require.NoError(t, err)

	require.True(t, wantDec.Equal(gotDec), "want %s, got %s", want, got)
}

func TestTransferTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	ctx := context.Background()

	from := helpers.SeedAccountWithBalance(t, db, "100")
	to := helpers.SeedAccountWithBalance(t, db, "10")

	result, err := repo.TransferTx(ctx, ledgerrepo.TransferTxParams{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        "30",
		Comment:       "lunch",
	})
	require.NoError(t, err)

	requireAmountEqual(t, "70", result.FromAccount.Balance)
	requireAmountEqual(t, "40", result.ToAccount.Balance)

	requireAmountEqual(t, "-30", result.FromEntry.Amount)
	require.Equal(t, domain.EntryTypeTransfer, result.FromEntry.Type)
	require.Equal(t, to.FullName, result.FromEntry.Counterparty)
	require.Equal(t, "lunch", result.FromEntry.Comment)

	requireAmountEqual(t, "30", result.ToEntry.Amount)
	require.Equal(t, from.FullName, result.ToEntry.Counterparty)
}

func TestTransferTxInsufficientBalanceLeavesNoTrace(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	entryRepo := entryrepo.NewRepoPGS(db)
	ctx := context.Background()

	from := helpers.SeedAccountWithBalance(t, db, "10")
	to := helpers.SeedAccountWithBalance(t, db, "10")

	_, err := repo.TransferTx(ctx, ledgerrepo.TransferTxParams{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        "30",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Neither balances nor history moved.
	gotFrom, err := accountRepo.Get(ctx, from.ID)
	require.NoError(t, err)
	requireAmountEqual(t, "10", gotFrom.Balance)

	gotTo, err := accountRepo.Get(ctx, to.ID)
	require.NoError(t, err)
	requireAmountEqual(t, "10", gotTo.Balance)

	entries, err := entryRepo.ListByAccount(ctx, to.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTransferTxConcurrent(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	ctx := context.Background()

	first := helpers.SeedAccountWithBalance(t, db, "100")
	second := helpers.SeedAccountWithBalance(t, db, "100")

	// Transfers in both directions at once must neither deadlock nor
	// change the combined balance.
	const rounds = 5

	var wg sync.WaitGroup

	errs := make(chan error, 2*rounds)

	for i := 0; i < rounds; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := repo.TransferTx(ctx, ledgerrepo.TransferTxParams{
				FromAccountID: first.ID,
				ToAccountID:   second.ID,
				Amount:        "10",
			})
			errs <- err
		}()

		go func() {
			defer wg.Done()

			_, err := repo.TransferTx(ctx, ledgerrepo.TransferTxParams{
				FromAccountID: second.ID,
				ToAccountID:   first.ID,
				Amount:        "10",
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	gotFirst, err := accountRepo.Get(ctx, first.ID)
	require.NoError(t, err)

	gotSecond, err := accountRepo.Get(ctx, second.ID)
	require.NoError(t, err)

	firstDec, err := decimal.NewFromString(gotFirst.Balance)
	require.NoError(t, err)

	secondDec, err := decimal.NewFromString(gotSecond.Balance)
	require.NoError(t, err)

	require.True(t, firstDec.Add(secondDec).Equal(decimal.NewFromInt(200)),
		"combined balance drifted: %s + %s", gotFirst.Balance, gotSecond.Balance)
}

func TestPurchaseTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	itemRepo := itemrepo.NewRepoPGS(db)
	ctx := context.Background()

	buyer := helpers.SeedAccountWithBalance(t, db, "500")
	plain := helpers.SeedItem(t, db, "100", 5)
	discounted := helpers.SeedDiscountedItem(t, db, "100", "60", 5)

	result, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
		AccountID: buyer.ID,
		Cart: []domain.CartLine{
			{ItemID: plain.ID, Quantity: 2},
			{ItemID: discounted.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// 2*100 at list price plus 1*60 at the discount.
	requireAmountEqual(t, "260", result.Total)
	requireAmountEqual(t, "240", result.Account.Balance)

	require.Equal(t, domain.EntryTypePurchase, result.Entry.Type)
	requireAmountEqual(t, "-260", result.Entry.Amount)
	require.Equal(t, domain.StoreCounterparty, result.Entry.Counterparty)
	require.Equal(t, "Purchase of 2 items", result.Entry.Comment)

	gotPlain, err := itemRepo.Get(ctx, plain.ID)
	require.NoError(t, err)
	require.Equal(t, int32(3), gotPlain.Quantity)
	require.Equal(t, int32(2), gotPlain.Popularity)

	gotDiscounted, err := itemRepo.Get(ctx, discounted.ID)
	require.NoError(t, err)
	require.Equal(t, int32(4), gotDiscounted.Quantity)
}

func TestPurchaseTxConcurrentOppositeCarts(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	itemRepo := itemrepo.NewRepoPGS(db)
	ctx := context.Background()

	first := helpers.SeedAccountWithBalance(t, db, "1000")
	second := helpers.SeedAccountWithBalance(t, db, "1000")
	itemA := helpers.SeedItem(t, db, "10", 50)
	itemB := helpers.SeedItem(t, db, "10", 50)

	// Overlapping carts naming the same items in opposite order must not
	// deadlock on the row locks.
	const rounds = 5

	var wg sync.WaitGroup

	errs := make(chan error, 2*rounds)

	for i := 0; i < rounds; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
				AccountID: first.ID,
				Cart: []domain.CartLine{
					{ItemID: itemA.ID, Quantity: 1},
					{ItemID: itemB.ID, Quantity: 1},
				},
			})
			errs <- err
		}()

		go func() {
			defer wg.Done()

			_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
				AccountID: second.ID,
				Cart: []domain.CartLine{
					{ItemID: itemB.ID, Quantity: 1},
					{ItemID: itemA.ID, Quantity: 1},
				},
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	gotA, err := itemRepo.Get(ctx, itemA.ID)
	require.NoError(t, err)
	require.Equal(t, int32(40), gotA.Quantity)

	gotB, err := itemRepo.Get(ctx, itemB.ID)
	require.NoError(t, err)
	require.Equal(t, int32(40), gotB.Quantity)
}

func TestPurchaseTxShortStockFailsWholeCart(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	itemRepo := itemrepo.NewRepoPGS(db)
	ctx := context.Background()

	buyer := helpers.SeedAccountWithBalance(t, db, "500")
	available := helpers.SeedItem(t, db, "10", 5)
	scarce := helpers.SeedItem(t, db, "10", 1)

	_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
		AccountID: buyer.ID,
		Cart: []domain.CartLine{
			{ItemID: available.ID, Quantity: 2},
			{ItemID: scarce.ID, Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrOutOfStock)

	// The in-stock line must not have been sold either.
	gotAvailable, err := itemRepo.Get(ctx, available.ID)
	require.NoError(t, err)
	require.Equal(t, int32(5), gotAvailable.Quantity)

	gotBuyer, err := accountRepo.Get(ctx, buyer.ID)
	require.NoError(t, err)
	requireAmountEqual(t, "500", gotBuyer.Balance)
}

func TestPurchaseTxUnknownItem(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	ctx := context.Background()

	buyer := helpers.SeedAccountWithBalance(t, db, "500")

	_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
		AccountID: buyer.ID,
		Cart:      []domain.CartLine{{ItemID: -1, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPurchaseTxInsufficientBalance(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	itemRepo := itemrepo.NewRepoPGS(db)
	ctx := context.Background()

	buyer := helpers.SeedAccountWithBalance(t, db, "50")
	item := helpers.SeedItem(t, db, "100", 5)

	_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
		AccountID: buyer.ID,
		Cart:      []domain.CartLine{{ItemID: item.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, err := itemRepo.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int32(5), got.Quantity)
}

func TestPurchaseTxUnknownBuyer(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	ctx := context.Background()

	item := helpers.SeedItem(t, db, "100", 5)

	// A credential surviving its account must read as a missing account,
	// not as a balance problem.
	_, err := repo.PurchaseTx(ctx, domain.PurchaseParams{
		AccountID: -100500,
		Cart:      []domain.CartLine{{ItemID: item.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAdjustTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	ctx := context.Background()

	account := helpers.SeedAccountWithBalance(t, db, "100")

	gotAccount, gotEntry, err := repo.AdjustTx(ctx, domain.AdjustParams{
		AccountID: account.ID,
		Amount:    "-150",
		Comment:   "penalty",
		AdminName: "Head Administrator",
	})
	require.NoError(t, err)

	// Corrections may push the balance below zero.
	requireAmountEqual(t, "-50", gotAccount.Balance)
	require.Equal(t, domain.EntryTypeAdminAdjustment, gotEntry.Type)
	requireAmountEqual(t, "-150", gotEntry.Amount)
	require.Equal(t, "Head Administrator", gotEntry.Counterparty)
	require.Equal(t, "penalty", gotEntry.Comment)

	_, _, err = repo.AdjustTx(ctx, domain.AdjustParams{
		AccountID: -1,
		Amount:    "10",
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBulkAdjustTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	accountRepo := accountrepo.NewRepoPGS(db)
	entryRepo := entryrepo.NewRepoPGS(db)
	ctx := context.Background()

	team := helpers.SeedTeam(t, db)
	first := helpers.SeedAccountWithBalance(t, db, "100")
	second := helpers.SeedAccountWithBalance(t, db, "200")

	require.NoError(t, accountRepo.SetTeam(ctx, team.ID, []int32{first.ID, second.ID}))

	ids, err := repo.BulkAdjustTx(ctx, domain.BulkAdjustParams{
		TeamID:    team.ID,
		Amount:    "25",
		Comment:   "sprint bonus",
		AdminName: "Head Administrator",
	})
	require.NoError(t, err)
	require.Equal(t, []int32{first.ID, second.ID}, ids)

	gotFirst, err := accountRepo.Get(ctx, first.ID)
	require.NoError(t, err)
	requireAmountEqual(t, "125", gotFirst.Balance)

	gotSecond, err := accountRepo.Get(ctx, second.ID)
	require.NoError(t, err)
	requireAmountEqual(t, "225", gotSecond.Balance)

	entries, err := entryRepo.ListByAccount(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, domain.EntryTypeAdminAdjustment, entries[0].Type)
	require.Equal(t, "Bulk operation (Head Administrator)", entries[0].Counterparty)
}

func TestBulkAdjustTxEmptyTeam(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(db)
	ctx := context.Background()

	team := helpers.SeedTeam(t, db)

	_, err := repo.BulkAdjustTx(ctx, domain.BulkAdjustParams{
		TeamID: team.ID,
		Amount: "25",
	})
	require.ErrorIs(t, err, domain.ErrEmptyTeam)
}
