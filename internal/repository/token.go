package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/tokenboard-backend/internal/models"
)

type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

// Insert stores a new token listing. Tokens are created once and never
// updated; token_address uniqueness is enforced by the database so that
// concurrent creations for the same address leave exactly one row.
func (r *TokenRepo) Insert(ctx context.Context, t *models.Token) (*models.Token, error) {
	if t.TokenAddress == "" || t.Name == "" || t.Symbol == "" {
		return nil, fmt.Errorf("%w: tokenAddress, name and symbol are required", ErrInvalidInput)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO tokens (token_address, name, symbol, twitter, telegram, website, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING *`,
		t.TokenAddress, t.Name, t.Symbol, t.Twitter, t.Telegram, t.Website, t.ImageURL,
	)

	created, err := scanToken(row)
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

func (r *TokenRepo) GetAll(ctx context.Context) ([]models.Token, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM tokens ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTokens(rows)
}

func (r *TokenRepo) FindByAddress(ctx context.Context, tokenAddress string) (*models.Token, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT * FROM tokens WHERE token_address = $1`,
		tokenAddress,
	)
	t, err := scanToken(row)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// --- scan helpers ---

func scanToken(row scannable) (*models.Token, error) {
	var t models.Token
	err := row.Scan(
		&t.ID, &t.TokenAddress, &t.Name, &t.Symbol,
		&t.Twitter, &t.Telegram, &t.Website, &t.ImageURL,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTokens(rows rowsIter) ([]models.Token, error) {
	var out []models.Token
	for rows.Next() {
		var t models.Token
		if err := rows.Scan(
			&t.ID, &t.TokenAddress, &t.Name, &t.Symbol,
			&t.Twitter, &t.Telegram, &t.Website, &t.ImageURL,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
