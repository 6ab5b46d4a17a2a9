package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/tokenboard-backend/internal/models"
	"github.com/kjannette/tokenboard-backend/internal/repository"
	"github.com/kjannette/tokenboard-backend/internal/testutil"
)

// uniqueAddr fabricates an address-like key so reruns against a shared
// TEST_DATABASE_URL never collide on the unique constraint.
func uniqueAddr(prefix string) string {
	return fmt.Sprintf("0x%s%d", prefix, time.Now().UnixNano())
}

// ---------- TokenRepo ----------

func TestTokenRepo_InsertAndFind(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTokenRepo(pool)
	ctx := context.Background()

	addr := uniqueAddr("aa")
	twitter := "https://twitter.com/pepe"
	created, err := repo.Insert(ctx, &models.Token{
		TokenAddress: addr,
		Name:         "Pepe",
		Symbol:       "PEPE",
		Twitter:      &twitter,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, addr, created.TokenAddress)
	assert.Equal(t, "Pepe", created.Name)
	assert.Equal(t, "PEPE", created.Symbol)
	require.NotNil(t, created.Twitter)
	assert.Equal(t, twitter, *created.Twitter)
	assert.Nil(t, created.Website)
	assert.Nil(t, created.ImageURL)
	assert.NotZero(t, created.CreatedAt)
	t.Logf("Inserted token: id=%d address=%s", created.ID, created.TokenAddress)

	found, err := repo.FindByAddress(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Name, found.Name)
	assert.Equal(t, created.Symbol, found.Symbol)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
	t.Logf("GetAll: %d tokens", len(all))
}

func TestTokenRepo_DuplicateAddress(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTokenRepo(pool)
	ctx := context.Background()

	addr := uniqueAddr("bb")
	_, err := repo.Insert(ctx, &models.Token{TokenAddress: addr, Name: "First", Symbol: "ONE"})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, &models.Token{TokenAddress: addr, Name: "Second", Symbol: "TWO"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	// exactly one row survives
	found, err := repo.FindByAddress(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "First", found.Name)
}

func TestTokenRepo_ConcurrentDuplicates(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTokenRepo(pool)
	ctx := context.Background()

	addr := uniqueAddr("cc")
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := repo.Insert(ctx, &models.Token{TokenAddress: addr, Name: "Race", Symbol: "RC"})
			errs <- err
		}()
	}

	var okCount, dupCount int
	for i := 0; i < 2; i++ {
		err := <-errs
		switch {
		case err == nil:
			okCount++
		default:
			assert.ErrorIs(t, err, repository.ErrDuplicateKey)
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactly one insert must win")
	assert.Equal(t, 1, dupCount, "exactly one insert must lose")
}

func TestTokenRepo_MissingRequiredFields(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTokenRepo(pool)
	ctx := context.Background()

	_, err := repo.Insert(ctx, &models.Token{Name: "NoAddress", Symbol: "NA"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = repo.Insert(ctx, &models.Token{TokenAddress: uniqueAddr("dd"), Symbol: "NS"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestTokenRepo_FindByAddressNotFound(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTokenRepo(pool)

	_, err := repo.FindByAddress(context.Background(), "0xdoesnotexist")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// ---------- PriceRepo ----------

func TestPriceRepo_RecordAndHistory(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewPriceRepo(pool)
	ctx := context.Background()

	addr := uniqueAddr("ee")

	first, err := repo.Record(ctx, addr, 1.23)
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Equal(t, 1.23, first.Price)
	assert.NotZero(t, first.Date, "date defaults to insertion time")
	assert.NotZero(t, first.CreatedAt)

	// later sample
	time.Sleep(10 * time.Millisecond)
	second, err := repo.Record(ctx, addr, 1.50)
	require.NoError(t, err)

	history, err := repo.GetByToken(ctx, addr)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1.23, history[0].Price, "ascending by creation time")
	assert.Equal(t, 1.50, history[1].Price)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	t.Logf("History: %d samples, %.2f -> %.2f", len(history), history[0].Price, history[1].Price)
}

func TestPriceRepo_ZeroPriceAccepted(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewPriceRepo(pool)

	p, err := repo.Record(context.Background(), uniqueAddr("ff"), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)
}

func TestPriceRepo_EmptyHistory(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewPriceRepo(pool)

	history, err := repo.GetByToken(context.Background(), "0xneverpriced")
	require.NoError(t, err)
	assert.Empty(t, history)
}

// ---------- TransactionRepo ----------

func TestTransactionRepo_RecordAndQuery(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTransactionRepo(pool)
	ctx := context.Background()

	name := fmt.Sprintf("TestCoin-%d", time.Now().UnixNano())
	eventTime := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

	created, err := repo.Record(ctx, &models.Transaction{
		TknName:       name,
		TokenQuantity: 1500,
		Type:          "buy",
		EthQuantity:   0.25,
		UserAddress:   "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		TxHash:        "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
		Timestamp:     eventTime,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "buy", created.Type)
	// the event time is caller-supplied, never server-assigned
	assert.True(t, created.Timestamp.Equal(eventTime),
		"timestamp must round-trip: got %s", created.Timestamp)

	txs, err := repo.GetByTokenName(ctx, name)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, name, txs[0].TknName)
	t.Logf("Recorded tx: id=%d type=%s qty=%.0f", created.ID, created.Type, created.TokenQuantity)
}

func TestTransactionRepo_InvalidType(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTransactionRepo(pool)

	_, err := repo.Record(context.Background(), &models.Transaction{
		TknName:       "TypeCheck",
		TokenQuantity: 10,
		Type:          "hold",
		EthQuantity:   0.1,
		UserAddress:   "0xabc",
		TxHash:        "0xdef",
		Timestamp:     time.Now(),
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestTransactionRepo_DuplicateTxHashAllowed(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTransactionRepo(pool)
	ctx := context.Background()

	name := fmt.Sprintf("DupCoin-%d", time.Now().UnixNano())
	tx := &models.Transaction{
		TknName:       name,
		TokenQuantity: 5,
		Type:          "sell",
		EthQuantity:   0.01,
		UserAddress:   "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		TxHash:        "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
		Timestamp:     time.Now().UTC(),
	}

	_, err := repo.Record(ctx, tx)
	require.NoError(t, err)
	_, err = repo.Record(ctx, tx)
	require.NoError(t, err, "tx_hash carries no uniqueness constraint")

	txs, err := repo.GetByTokenName(ctx, name)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestTransactionRepo_FilterByName(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewTransactionRepo(pool)
	ctx := context.Background()

	mine := fmt.Sprintf("Mine-%d", time.Now().UnixNano())
	other := fmt.Sprintf("Other-%d", time.Now().UnixNano())
	for _, name := range []string{mine, mine, other} {
		_, err := repo.Record(ctx, &models.Transaction{
			TknName:       name,
			TokenQuantity: 1,
			Type:          "buy",
			EthQuantity:   0.001,
			UserAddress:   "0xabc",
			TxHash:        "0xdef",
			Timestamp:     time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	txs, err := repo.GetByTokenName(ctx, mine)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, mine, tx.TknName)
	}

	none, err := repo.GetByTokenName(ctx, "NoSuchCoin")
	require.NoError(t, err)
	assert.Empty(t, none)
}
