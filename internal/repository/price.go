package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/tokenboard-backend/internal/models"
)

type PriceRepo struct {
	pool *pgxpool.Pool
}

func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// Record appends one observed price point. The observation time is assigned
// by the database at insert.
func (r *PriceRepo) Record(ctx context.Context, tokenAddress string, price float64) (*models.TokenPrice, error) {
	if tokenAddress == "" {
		return nil, fmt.Errorf("%w: tokenAddress is required", ErrInvalidInput)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO token_prices (token_address, price)
		 VALUES ($1, $2) RETURNING *`,
		tokenAddress, price,
	)

	p, err := scanPrice(row)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// GetByToken returns the full price history for a token, oldest first.
func (r *PriceRepo) GetByToken(ctx context.Context, tokenAddress string) ([]models.TokenPrice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM token_prices WHERE token_address = $1 ORDER BY created_at ASC`,
		tokenAddress,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

// --- scan helpers ---

func scanPrice(row scannable) (*models.TokenPrice, error) {
	var p models.TokenPrice
	err := row.Scan(&p.ID, &p.TokenAddress, &p.Price, &p.Date, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPrices(rows rowsIter) ([]models.TokenPrice, error) {
	var out []models.TokenPrice
	for rows.Next() {
		var p models.TokenPrice
		if err := rows.Scan(&p.ID, &p.TokenAddress, &p.Price, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
