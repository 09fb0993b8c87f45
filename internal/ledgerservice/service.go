// Package ledgerservice manages business logic layer of the transaction engine.
package ledgerservice

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/ledgerrepo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultTransferComment is recorded when the caller leaves the comment blank.
const DefaultTransferComment = "Private transfer"

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	TransferTx(ctx context.Context, arg ledgerrepo.TransferTxParams) (domain.TransferTxResult, error)
	PurchaseTx(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseTxResult, error)
	AdjustTx(ctx context.Context, arg domain.AdjustParams) (domain.Account, domain.Entry, error)
	BulkAdjustTx(ctx context.Context, arg domain.BulkAdjustParams) ([]int32, error)
}

// AccountRepo provides the account lookups the engine validates against.
type AccountRepo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
}

// Service facilitates transaction engine logic. Validation happens here;
// atomicity is the repository's contract. A failed operation mutates
// nothing and must never trigger a notification, so every method reports
// the affected account ids only on success.
type Service struct {
	repo     Repo
	accounts AccountRepo
}

// New returns ledger service struct to manage the transaction engine.
func New(lr Repo, ar AccountRepo) *Service {
	return &Service{
		repo:     lr,
		accounts: ar,
	}
}

func positiveAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrNegativeAmount
	}

	return d, nil
}

// Transfer validates the transfer request and then executes it.
// On success both parties need a full refresh.
func (s *Service) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, []int32, error) {
	l := zerolog.Ctx(ctx)

	amount, err := positiveAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return domain.TransferTxResult{}, nil, err
	}

	recipient, err := s.accounts.GetByUsername(ctx, arg.ToUsername)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.TransferTxResult{}, nil, domain.ErrRecipientNotFound
		}

		return domain.TransferTxResult{}, nil, err
	}

	if recipient.ID == arg.FromAccountID {
		l.Info().Err(domain.ErrSelfTransfer).Send()
		return domain.TransferTxResult{}, nil, domain.ErrSelfTransfer
	}

	source, err := s.accounts.Get(ctx, arg.FromAccountID)
	if err != nil {
		return domain.TransferTxResult{}, nil, err
	}

	balance, err := decimal.NewFromString(source.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, nil, domain.ErrInvalidAmount
	}

	if balance.LessThan(amount) {
		return domain.TransferTxResult{}, nil, domain.ErrInsufficientBalance
	}

	comment := arg.Comment
	if comment == "" {
		comment = DefaultTransferComment
	}

	result, err := s.repo.TransferTx(ctx, ledgerrepo.TransferTxParams{
		FromAccountID: arg.FromAccountID,
		ToAccountID:   recipient.ID,
		Amount:        amount.String(),
		Comment:       comment,
	})
	if err != nil {
		return domain.TransferTxResult{}, nil, err
	}

	return result, []int32{arg.FromAccountID, recipient.ID}, nil
}

// Purchase validates the cart and then executes the purchase.
// On success the buyer needs a full refresh and everyone a shop refresh.
func (s *Service) Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseTxResult, error) {
	l := zerolog.Ctx(ctx)

	if len(arg.Cart) == 0 {
		l.Info().Err(domain.ErrEmptyCart).Send()
		return domain.PurchaseTxResult{}, domain.ErrEmptyCart
	}

	for _, line := range arg.Cart {
		if line.Quantity <= 0 {
			l.Info().Err(domain.ErrInvalidQuantity).Int32("item_id", line.ItemID).Send()
			return domain.PurchaseTxResult{}, domain.ErrInvalidQuantity
		}
	}

	return s.repo.PurchaseTx(ctx, arg)
}

// AdjustBalance applies a signed admin correction to one account.
func (s *Service) AdjustBalance(ctx context.Context, arg domain.AdjustParams) (domain.Account, domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	if _, err := decimal.NewFromString(arg.Amount); err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return domain.Account{}, domain.Entry{}, domain.ErrInvalidAmount
	}

	return s.repo.AdjustTx(ctx, arg)
}

// BulkAdjust applies a signed admin correction to every member of a team
// and returns the affected account ids.
func (s *Service) BulkAdjust(ctx context.Context, arg domain.BulkAdjustParams) ([]int32, error) {
	l := zerolog.Ctx(ctx)

	if _, err := decimal.NewFromString(arg.Amount); err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return nil, domain.ErrInvalidAmount
	}

	return s.repo.BulkAdjustTx(ctx, arg)
}
