// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, username, hashed_password, full_name, dob, balance, is_admin, is_blocked, team_id, created_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.HashedPassword,
		&a.FullName,
		&a.DOB,
		&a.Balance,
		&a.IsAdmin,
		&a.IsBlocked,
		&a.TeamID,
		&a.CreatedAt,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    users (username, hashed_password, full_name, dob, balance, is_admin)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Username,
		arg.HashedPassword,
		arg.FullName,
		arg.DOB,
		arg.Balance,
		arg.IsAdmin,
	)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "users_username_key" {
				return a, domain.ErrUsernameAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM users
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByUsernameQuery = `
SELECT ` + accountColumns + `
FROM users
WHERE username = $1
`

// GetByUsername returns the account with the given login handle.
func (r *RepoPGS) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getByUsernameQuery, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE users
SET balance = balance + $1
WHERE id = $2
RETURNING ` + accountColumns

// AddBalance unconditionally applies a signed amount to the account's
// balance and returns the changed account. The balance may go negative;
// spending operations must use Spend instead.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, addBalanceQuery, amount, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const spendQuery = `
UPDATE users
SET balance = balance - $1
WHERE id = $2 AND balance >= $1
RETURNING ` + accountColumns

// Spend debits a positive amount, enforcing the zero floor. The guard is
// part of the UPDATE itself so concurrent spends against the same account
// serialize on the row and can never overdraw it.
func (r *RepoPGS) Spend(ctx context.Context, amount string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, spendQuery, amount, id))
	if err != nil {
		if err == sql.ErrNoRows {
			// The guarded update matches no row either because the
			// account is gone or because the balance is short.
			if _, err := r.Get(ctx, id); err != nil {
				return a, err
			}

			return a, domain.ErrInsufficientBalance
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getProfileQuery = `
SELECT u.id, u.username, u.full_name, u.dob, u.balance, COALESCE(t.name, '')
FROM users u
LEFT JOIN teams t ON u.team_id = t.id
WHERE u.id = $1
`

// GetProfile returns the owner-facing account summary with the team name resolved.
func (r *RepoPGS) GetProfile(ctx context.Context, id int32) (domain.Profile, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getProfileQuery, id)

	var p domain.Profile

	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.DOB,
		&p.Balance,
		&p.TeamName,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return p, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listQuery = `
SELECT u.id, u.username, u.full_name, u.dob, u.balance, u.is_blocked, u.team_id, COALESCE(t.name, '')
FROM users u
LEFT JOIN teams t ON u.team_id = t.id
WHERE u.is_admin = false
ORDER BY u.full_name
`

// List returns all non-admin accounts ordered by display name.
func (r *RepoPGS) List(ctx context.Context) ([]domain.AdminAccountRow, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.AdminAccountRow{}

	for rows.Next() {
		var a domain.AdminAccountRow
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.FullName,
			&a.DOB,
			&a.Balance,
			&a.IsBlocked,
			&a.TeamID,
			&a.TeamName,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateQuery = `
UPDATE users
SET username = $1, full_name = $2, dob = $3, balance = $4, is_blocked = $5, team_id = $6
WHERE id = $7
RETURNING ` + accountColumns

const updateWithPasswordQuery = `
UPDATE users
SET username = $1, full_name = $2, dob = $3, balance = $4, is_blocked = $5, team_id = $6, hashed_password = $8
WHERE id = $7
RETURNING ` + accountColumns

// Update overwrites the account's editable fields. The password is changed
// only when arg.HashedPassword is non-empty.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var row *sql.Row
	if arg.HashedPassword == "" {
		row = r.db.QueryRowContext(ctx, updateQuery,
			arg.Username, arg.FullName, arg.DOB, arg.Balance, arg.IsBlocked, arg.TeamID, arg.ID)
	} else {
		row = r.db.QueryRowContext(ctx, updateWithPasswordQuery,
			arg.Username, arg.FullName, arg.DOB, arg.Balance, arg.IsBlocked, arg.TeamID, arg.ID, arg.HashedPassword)
	}

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "users_username_key":
				return a, domain.ErrUsernameAlreadyExists
			case "users_team_id_fkey":
				return a, domain.ErrTeamNotFound
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listIDsByTeamQuery = `
SELECT id FROM users
WHERE team_id = $1
ORDER BY id
`

// ListIDsByTeam returns the ids of the team's members in id order.
// The order matters to callers that lock the member rows one by one.
func (r *RepoPGS) ListIDsByTeam(ctx context.Context, teamID int32) ([]int32, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listIDsByTeamQuery, teamID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	ids := []int32{}

	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return ids, nil
}

const setTeamQuery = `
UPDATE users
SET team_id = $1
WHERE id = ANY($2)
`

// SetTeam assigns the given accounts to a team.
func (r *RepoPGS) SetTeam(ctx context.Context, teamID int32, accountIDs []int32) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, setTeamQuery, teamID, pq.Array(accountIDs)); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const deleteQuery = `
DELETE FROM users
WHERE id = $1
`

// Delete removes the account with the given id. Its ledger entries cascade.
func (r *RepoPGS) Delete(ctx context.Context, id int32) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
