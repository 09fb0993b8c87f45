// Package tokenpkg manages creation and verification of bearer tokens.
package tokenpkg

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates a malformed or tampered token.
	ErrInvalidToken = errors.New("token is invalid")
	// ErrExpiredToken indicates a token past its expiry horizon.
	ErrExpiredToken = errors.New("token has expired")
)

// Payload contains the data carried inside a token. A token is bound to
// one account id and carries the account's admin flag at issue time.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	AccountID int32     `json:"account_id"`
	IsAdmin   bool      `json:"is_admin"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

// NewPayload creates a token payload for the given account with the given duration.
func NewPayload(accountID int32, isAdmin bool, duration time.Duration) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:        tokenID,
		AccountID: accountID,
		IsAdmin:   isAdmin,
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(duration),
	}

	return payload, nil
}

// Valid returns an error if the token payload has expired.
func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}

	return nil
}
