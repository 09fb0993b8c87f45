// Package teamrepo manages repository layer of teams.
package teamrepo

import (
	"context"
	"database/sql"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates team repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns team RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO teams (name)
VALUES ($1)
RETURNING id, name
`

// Create creates the team and then returns it.
func (r *RepoPGS) Create(ctx context.Context, name string) (domain.Team, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, name)

	var t domain.Team

	err := row.Scan(&t.ID, &t.Name)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "teams_name_key" {
				return t, domain.ErrTeamNameAlreadyExists
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT id, name FROM teams
WHERE id = $1
`

// Get returns the team with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Team, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Team

	err := row.Scan(&t.ID, &t.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTeamNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT id, name FROM teams
ORDER BY name
`

// List returns all teams ordered by name.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Team, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Team{}

	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const deleteQuery = `
DELETE FROM teams
WHERE id = $1
`

// Delete removes the team. Member accounts revert to no team through the
// ON DELETE SET NULL reference; they are never deleted.
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
		return domain.ErrTeamNotFound
	}

	return nil
}
