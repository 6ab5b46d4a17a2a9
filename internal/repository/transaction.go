package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/tokenboard-backend/internal/models"
)

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Record appends a buy or sell event. The event timestamp is caller-supplied
// and never defaulted here; tx_hash carries no uniqueness constraint, so a
// resubmitted transaction creates a second row.
func (r *TransactionRepo) Record(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.Type != "buy" && t.Type != "sell" {
		return nil, fmt.Errorf("%w: type must be 'buy' or 'sell', got %q", ErrInvalidInput, t.Type)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions
		 (tkn_name, token_quantity, type, eth_quantity, user_address, tx_hash, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING *`,
		t.TknName, t.TokenQuantity, t.Type, t.EthQuantity,
		t.UserAddress, t.TxHash, t.Timestamp,
	)

	created, err := scanTransaction(row)
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

// GetByTokenName returns all recorded events for a token display name.
// The filter is by name, not address: two tokens listed under the same name
// share a history here.
func (r *TransactionRepo) GetByTokenName(ctx context.Context, tokenName string) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM transactions WHERE tkn_name = $1 ORDER BY id ASC`,
		tokenName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// --- scan helpers ---

func scanTransaction(row scannable) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.TknName, &t.TokenQuantity, &t.Type, &t.EthQuantity,
		&t.UserAddress, &t.TxHash, &t.Timestamp, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTransactions(rows rowsIter) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.TknName, &t.TokenQuantity, &t.Type, &t.EthQuantity,
			&t.UserAddress, &t.TxHash, &t.Timestamp, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
