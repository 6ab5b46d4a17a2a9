package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kjannette/tokenboard-backend/internal/ethaddr"
	"github.com/kjannette/tokenboard-backend/internal/models"
	"github.com/kjannette/tokenboard-backend/internal/repository"
)

type transactionRequest struct {
	Type          string          `json:"type"`
	TknName       string          `json:"tknName"`
	TokenQuantity float64         `json:"tokenQuantity"`
	EthQuantity   float64         `json:"ethQuantity"`
	TxHash        string          `json:"txHash"`
	UserAddress   string          `json:"userAddress"`
	Timestamp     json.RawMessage `json:"timestamp"`
}

// parseTimestamp accepts the two encodings clients send for the event time:
// Unix milliseconds as a JSON number, or an RFC 3339 string.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms == 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	return time.Time{}, false
}

func (s *Server) handleStoreTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required."})
		return
	}

	ts, tsOK := parseTimestamp(req.Timestamp)

	// Zero quantities are treated as missing, like every other empty field.
	if req.TknName == "" || req.TokenQuantity == 0 || req.Type == "" ||
		req.EthQuantity == 0 || req.TxHash == "" || req.UserAddress == "" || !tsOK {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required."})
		return
	}

	if !ethaddr.IsAddress(req.UserAddress) {
		fmt.Printf("[TX] Warning: userAddress %q is not a valid hex address\n", req.UserAddress)
	}
	if !ethaddr.IsTxHash(req.TxHash) {
		fmt.Printf("[TX] Warning: txHash %q is not a valid transaction hash\n", req.TxHash)
	}

	created, err := s.txRepo.Record(r.Context(), &models.Transaction{
		TknName:       req.TknName,
		TokenQuantity: req.TokenQuantity,
		Type:          req.Type,
		EthQuantity:   req.EthQuantity,
		UserAddress:   req.UserAddress,
		TxHash:        req.TxHash,
		Timestamp:     ts,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		fmt.Printf("[TX] Error storing transaction: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to store transaction",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTransactionsByToken(w http.ResponseWriter, r *http.Request) {
	tokenName := r.URL.Query().Get("tokenName")
	if tokenName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Token name is required"})
		return
	}

	txs, err := s.txRepo.GetByTokenName(r.Context(), tokenName)
	if err != nil {
		fmt.Printf("[TX] Error fetching transactions: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error fetching transactions",
			"error":   err.Error(),
		})
		return
	}
	if len(txs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message": fmt.Sprintf("No transactions found for '%s'", tokenName),
		})
		return
	}

	writeJSON(w, http.StatusOK, txs)
}
