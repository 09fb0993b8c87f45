package domain

import "time"

// Entry types recorded in the ledger.
const (
	EntryTypeTransfer        = "transfer"
	EntryTypePurchase        = "purchase"
	EntryTypeAdminAdjustment = "admin_adjustment"
)

// StoreCounterparty labels purchase entries; there is no structured
// link from an entry back to the purchased items.
const StoreCounterparty = "Store"

// Entry is one immutable balance-affecting event.
// Entries are never updated or deleted.
type Entry struct {
	ID           int64     `json:"id"`
	AccountID    int32     `json:"-"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"` // negative or positive
	Counterparty string    `json:"counterparty"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"timestamp"`
}
