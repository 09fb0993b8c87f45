package ledgerservice

import (
	"context"
	"testing"
	"time"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/ledgerrepo"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func randomAccount(id int32, balance string) domain.Account {
	return domain.Account{
		ID:        id,
		Username:  randompkg.Username(),
		FullName:  randompkg.FullName(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestTransfer(t *testing.T) {
	source := randomAccount(1, "100")
	recipient := randomAccount(2, "10")
	amount := "30"

	wantTxResult := domain.TransferTxResult{
		FromAccount: source,
		ToAccount:   recipient,
		FromEntry: domain.Entry{
			AccountID:    source.ID,
			Type:         domain.EntryTypeTransfer,
			Amount:       "-" + amount,
			Counterparty: recipient.FullName,
			Comment:      "gift",
		},
		ToEntry: domain.Entry{
			AccountID:    recipient.ID,
			Type:         domain.EntryTypeTransfer,
			Amount:       amount,
			Counterparty: source.FullName,
			Comment:      "gift",
		},
	}

	testCases := []struct {
		name          string
		arg           domain.TransferParams
		buildStubs    func(repo *MockRepo, accounts *MockAccountRepo)
		checkResponse func(res domain.TransferTxResult, affected []int32, err error)
	}{
		{
			name: "InvalidAmount",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        "!@#$",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, res)
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "NegativeAmount",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        "-30",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name: "ZeroAmount",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        "0",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name: "RecipientNotFound",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    "missing",
				Amount:        amount,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq("missing")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrRecipientNotFound)
			},
		},
		{
			name: "SelfTransfer",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    source.Username,
				Amount:        amount,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq(source.Username)).
					Times(1).
					Return(source, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrSelfTransfer)
			},
		},
		{
			name: "InsufficientBalance",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        "1000",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq(recipient.Username)).
					Times(1).
					Return(recipient, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(source.ID)).
					Times(1).
					Return(source, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			name: "RepoError",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        amount,
				Comment:       "gift",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq(recipient.Username)).
					Times(1).
					Return(recipient, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(source.ID)).
					Times(1).
					Return(source, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.Empty(t, affected)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name: "OK",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        amount,
				Comment:       "gift",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq(recipient.Username)).
					Times(1).
					Return(recipient, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(source.ID)).
					Times(1).
					Return(source, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(ledgerrepo.TransferTxParams{
					FromAccountID: source.ID,
					ToAccountID:   recipient.ID,
					Amount:        amount,
					Comment:       "gift",
				})).
					Times(1).
					Return(wantTxResult, nil)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.NoError(t, err)
				require.Equal(t, wantTxResult, res)
				require.Equal(t, []int32{source.ID, recipient.ID}, affected)
			},
		},
		{
			name: "BlankCommentDefaulted",
			arg: domain.TransferParams{
				FromAccountID: source.ID,
				ToUsername:    recipient.Username,
				Amount:        amount,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountRepo) {
				accounts.EXPECT().GetByUsername(gomock.Any(), gomock.Eq(recipient.Username)).
					Times(1).
					Return(recipient, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(source.ID)).
					Times(1).
					Return(source, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(ledgerrepo.TransferTxParams{
					FromAccountID: source.ID,
					ToAccountID:   recipient.ID,
					Amount:        amount,
					Comment:       DefaultTransferComment,
				})).
					Times(1).
					Return(wantTxResult, nil)
			},
			checkResponse: func(res domain.TransferTxResult, affected []int32, err error) {
				require.NoError(t, err)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accounts := NewMockAccountRepo(ctrl)
			tc.buildStubs(repo, accounts)

			service := New(repo, accounts)

			res, affected, err := service.Transfer(context.Background(), tc.arg)
			tc.checkResponse(res, affected, err)
		})
	}
}

func TestPurchase(t *testing.T) {
	buyer := randomAccount(1, "100")

	wantResult := domain.PurchaseTxResult{
		Account: buyer,
		Entry: domain.Entry{
			AccountID:    buyer.ID,
			Type:         domain.EntryTypePurchase,
			Amount:       "-30",
			Counterparty: domain.StoreCounterparty,
		},
		Total: "30",
	}

	testCases := []struct {
		name          string
		arg           domain.PurchaseParams
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.PurchaseTxResult, err error)
	}{
		{
			name: "EmptyCart",
			arg:  domain.PurchaseParams{AccountID: buyer.ID},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().PurchaseTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PurchaseTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrEmptyCart)
			},
		},
		{
			name: "ZeroQuantity",
			arg: domain.PurchaseParams{
				AccountID: buyer.ID,
				Cart:      []domain.CartLine{{ItemID: 1, Quantity: 0}},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().PurchaseTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PurchaseTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidQuantity)
			},
		},
		{
			name: "OutOfStock",
			arg: domain.PurchaseParams{
				AccountID: buyer.ID,
				Cart:      []domain.CartLine{{ItemID: 1, Quantity: 3}},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().PurchaseTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.PurchaseTxResult{}, domain.ErrOutOfStock)
			},
			checkResponse: func(res domain.PurchaseTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrOutOfStock)
			},
		},
		{
			name: "OK",
			arg: domain.PurchaseParams{
				AccountID: buyer.ID,
				Cart:      []domain.CartLine{{ItemID: 1, Quantity: 2}},
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().PurchaseTx(gomock.Any(), gomock.Eq(domain.PurchaseParams{
					AccountID: buyer.ID,
					Cart:      []domain.CartLine{{ItemID: 1, Quantity: 2}},
				})).
					Times(1).
					Return(wantResult, nil)
			},
			checkResponse: func(res domain.PurchaseTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, wantResult, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo, NewMockAccountRepo(ctrl))

			res, err := service.Purchase(context.Background(), tc.arg)
			tc.checkResponse(res, err)
		})
	}
}

func TestAdjustBalance(t *testing.T) {
	target := randomAccount(3, "50")

	testCases := []struct {
		name       string
		arg        domain.AdjustParams
		buildStubs func(repo *MockRepo)
		wantErr    error
	}{
		{
			name: "InvalidAmount",
			arg:  domain.AdjustParams{AccountID: target.ID, Amount: "abc"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AdjustTx(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "NegativeAmountAllowed",
			arg:  domain.AdjustParams{AccountID: target.ID, Amount: "-100", Comment: "correction", AdminName: "Head Admin"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AdjustTx(gomock.Any(), gomock.Eq(domain.AdjustParams{
					AccountID: target.ID,
					Amount:    "-100",
					Comment:   "correction",
					AdminName: "Head Admin",
				})).
					Times(1).
					Return(target, domain.Entry{}, nil)
			},
		},
		{
			name: "TargetNotFound",
			arg:  domain.AdjustParams{AccountID: 100500, Amount: "50"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AdjustTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.Entry{}, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo, NewMockAccountRepo(ctrl))

			_, _, err := service.AdjustBalance(context.Background(), tc.arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBulkAdjust(t *testing.T) {
	testCases := []struct {
		name         string
		arg          domain.BulkAdjustParams
		buildStubs   func(repo *MockRepo)
		wantAffected []int32
		wantErr      error
	}{
		{
			name: "InvalidAmount",
			arg:  domain.BulkAdjustParams{TeamID: 1, Amount: "fifty"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().BulkAdjustTx(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "EmptyTeam",
			arg:  domain.BulkAdjustParams{TeamID: 1, Amount: "50"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().BulkAdjustTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrEmptyTeam)
			},
			wantErr: domain.ErrEmptyTeam,
		},
		{
			name: "OK",
			arg:  domain.BulkAdjustParams{TeamID: 1, Amount: "50", Comment: "prize", AdminName: "Head Admin"},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().BulkAdjustTx(gomock.Any(), gomock.Eq(domain.BulkAdjustParams{
					TeamID:    1,
					Amount:    "50",
					Comment:   "prize",
					AdminName: "Head Admin",
				})).
					Times(1).
					Return([]int32{1, 2, 3}, nil)
			},
			wantAffected: []int32{1, 2, 3},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			service := New(repo, NewMockAccountRepo(ctrl))

			affected, err := service.BulkAdjust(context.Background(), tc.arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, affected)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.wantAffected, affected)
			}
		})
	}
}
