// Package itemrepo manages repository layer of shop items.
package itemrepo

import (
	"context"
	"database/sql"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/dbpkg"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates shop item repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns item RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const itemColumns = `id, name, price, discount_price, quantity, category, description, image, popularity`

func scanItem(row *sql.Row) (domain.Item, error) {
	var i domain.Item

	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.DiscountPrice,
		&i.Quantity,
		&i.Category,
		&i.Description,
		&i.Image,
		&i.Popularity,
	)

	return i, err
}

const createQuery = `
INSERT INTO
    shop_items (name, price, discount_price, quantity, category, description, image)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + itemColumns

// Create creates the shop item and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateItemParams) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Name,
		arg.Price,
		arg.DiscountPrice,
		arg.Quantity,
		arg.Category,
		arg.Description,
		arg.Image,
	)

	i, err := scanItem(row)
	if err != nil {
		l.Error().Err(err).Send()
		return i, errorspkg.ErrInternal
	}

	return i, nil
}

const getQuery = `
SELECT ` + itemColumns + `
FROM shop_items
WHERE id = $1
`

// Get returns the shop item with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	i, err := scanItem(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return i, domain.ErrItemNotFound
		}

		l.Error().Err(err).Send()

		return i, errorspkg.ErrInternal
	}

	return i, nil
}

const getForUpdateQuery = `
SELECT ` + itemColumns + `
FROM shop_items
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the shop item with its row locked until the
// surrounding transaction ends. Purchase validation reads items this way
// so the stock it checked cannot change before the decrement lands.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int32) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	i, err := scanItem(r.db.QueryRowContext(ctx, getForUpdateQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return i, domain.ErrItemNotFound
		}

		l.Error().Err(err).Send()

		return i, errorspkg.ErrInternal
	}

	return i, nil
}

const listByPopularityQuery = `
SELECT ` + itemColumns + `
FROM shop_items
ORDER BY popularity DESC, name
`

const listByNameQuery = `
SELECT ` + itemColumns + `
FROM shop_items
ORDER BY name
`

// ListByPopularity returns the full catalog, most popular first, then by name.
func (r *RepoPGS) ListByPopularity(ctx context.Context) ([]domain.Item, error) {
	return r.list(ctx, listByPopularityQuery)
}

// ListByName returns the full catalog ordered by name.
func (r *RepoPGS) ListByName(ctx context.Context) ([]domain.Item, error) {
	return r.list(ctx, listByNameQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string) ([]domain.Item, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Item{}

	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Price,
			&i.DiscountPrice,
			&i.Quantity,
			&i.Category,
			&i.Description,
			&i.Image,
			&i.Popularity,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateQuery = `
UPDATE shop_items
SET name = $1, price = $2, discount_price = $3, quantity = $4, category = $5, description = $6, image = $7
WHERE id = $8
RETURNING ` + itemColumns

// Update overwrites the shop item's fields and returns it.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateItemParams) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery,
		arg.Name,
		arg.Price,
		arg.DiscountPrice,
		arg.Quantity,
		arg.Category,
		arg.Description,
		arg.Image,
		arg.ID,
	)

	i, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return i, domain.ErrItemNotFound
		}

		l.Error().Err(err).Send()

		return i, errorspkg.ErrInternal
	}

	return i, nil
}

const sellQuery = `
UPDATE shop_items
SET quantity = quantity - $1, popularity = popularity + $1
WHERE id = $2 AND quantity >= $1
RETURNING ` + itemColumns

// Sell decrements stock and increments popularity by the sold quantity.
// The stock guard rides on the UPDATE: no matching row means the stock
// is short (or the item vanished), and nothing changes.
func (r *RepoPGS) Sell(ctx context.Context, quantity, id int32) (domain.Item, error) {
	l := zerolog.Ctx(ctx)

	i, err := scanItem(r.db.QueryRowContext(ctx, sellQuery, quantity, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return i, domain.ErrOutOfStock
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "shop_items_quantity_check" {
				return i, domain.ErrOutOfStock
			}
		}

		return i, errorspkg.ErrInternal
	}

	return i, nil
}

const deleteQuery = `
DELETE FROM shop_items
WHERE id = $1
`

// Delete removes the shop item with the given id.
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
		return domain.ErrItemNotFound
	}

	return nil
}
