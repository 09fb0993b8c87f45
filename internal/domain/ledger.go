package domain

import "errors"

var (
	// ErrInvalidAmount indicates an unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates a zero or negative amount where a positive one is required.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSelfTransfer indicates a transfer where source and destination are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
	// ErrEmptyCart indicates a purchase with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity indicates a cart line with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// TransferParams is the input data for the transfer transaction.
type TransferParams struct {
	FromAccountID int32  `json:"from_account_id"`
	ToUsername    string `json:"to_username"`
	Amount        string `json:"amount"`
	Comment       string `json:"comment"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}

// CartLine is one requested item of a purchase.
type CartLine struct {
	ItemID   int32 `json:"id"`
	Quantity int32 `json:"quantity"`
}

// PurchaseParams is the input data for the purchase transaction.
type PurchaseParams struct {
	AccountID int32
	Cart      []CartLine
}

// PurchaseTxResult is the result of the purchase transaction.
type PurchaseTxResult struct {
	Account Account `json:"account"`
	Entry   Entry   `json:"entry"`
	Total   string  `json:"total"`
}

// AdjustParams is the input data for a single admin balance adjustment.
// Amount is signed; adjustments may legitimately overdraw an account.
type AdjustParams struct {
	AccountID int32
	Amount    string
	Comment   string
	AdminName string
}

// BulkAdjustParams is the input data for a team-wide balance adjustment.
type BulkAdjustParams struct {
	TeamID    int32
	Amount    string
	Comment   string
	AdminName string
}
