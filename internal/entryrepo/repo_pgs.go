// Package entryrepo manages repository layer of ledger entries.
package entryrepo

import (
	"context"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates entry repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns entry RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// CreateEntryParams holds the data for one appended ledger entry.
type CreateEntryParams struct {
	AccountID    int32
	Type         string
	Amount       string
	Counterparty string
	Comment      string
}

const createQuery = `
INSERT INTO
    entries (account_id, type, amount, counterparty, comment)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_id, type, amount, counterparty, comment, created_at
`

// Create appends the entry and then returns it. Entries are append-only;
// there is no update or delete path.
func (r *RepoPGS) Create(ctx context.Context, arg CreateEntryParams) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.Counterparty,
		arg.Comment,
	)

	var e domain.Entry

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Type,
		&e.Amount,
		&e.Counterparty,
		&e.Comment,
		&e.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "entries_account_id_fkey" {
				return e, domain.ErrAccountNotFound
			}
		}

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const listByAccountQuery = `
SELECT id, account_id, type, amount, counterparty, comment, created_at
FROM entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
`

// ListByAccount returns all entries of the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&e.Type,
			&e.Amount,
			&e.Counterparty,
			&e.Comment,
			&e.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
