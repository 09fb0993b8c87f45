// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameAlreadyExists indicates that an account with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrWrongPassword indicates the wrong password for the given account.
	ErrWrongPassword = errors.New("wrong username or password")
	// ErrAccountBlocked indicates that the account is blocked.
	ErrAccountBlocked = errors.New("account is blocked")
	// ErrRecipientNotFound indicates that the transfer recipient is not found.
	ErrRecipientNotFound = errors.New("recipient not found")
)

// Account holds login identity and balance data.
type Account struct {
	ID             int32     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name"`
	DOB            string    `json:"dob,omitempty"`
	Balance        string    `json:"balance"`
	IsAdmin        bool      `json:"is_admin"`
	IsBlocked      bool      `json:"is_blocked"`
	TeamID         *int32    `json:"team_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Username       string
	HashedPassword string
	FullName       string
	DOB            string
	Balance        string
	IsAdmin        bool
}

// UpdateAccountParams is the input data to update an account.
// HashedPassword is applied only when non-empty.
type UpdateAccountParams struct {
	ID             int32
	Username       string
	FullName       string
	DOB            string
	Balance        string
	IsBlocked      bool
	TeamID         *int32
	HashedPassword string
}

// Profile is account data safe to return to its owner.
type Profile struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	DOB      string `json:"dob,omitempty"`
	Balance  string `json:"balance"`
	TeamName string `json:"team_name,omitempty"`
}

// AdminAccountRow is the account data shown in the admin panel listing.
type AdminAccountRow struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	DOB       string `json:"dob,omitempty"`
	Balance   string `json:"balance"`
	IsBlocked bool   `json:"is_blocked"`
	TeamID    *int32 `json:"team_id"`
	TeamName  string `json:"team_name,omitempty"`
}

// AppData is the full refresh payload for one account: its profile,
// its ledger history newest first and the shop catalog.
type AppData struct {
	CurrentUser Profile `json:"currentUser"`
	Entries     []Entry `json:"transactions"`
	ShopItems   []Item  `json:"shopItems"`
}
