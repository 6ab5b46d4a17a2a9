package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type priceRequest struct {
	TokenAddress string   `json:"tokenAddress"`
	Price        *float64 `json:"price"`
}

// handleStorePrice appends one price sample. A null price is rejected but a
// zero price is a legitimate observation and stored.
func (s *Server) handleStorePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Token address and price are required")
		return
	}
	if req.TokenAddress == "" || req.Price == nil {
		writeText(w, http.StatusBadRequest, "Token address and price are required")
		return
	}

	if _, err := s.priceRepo.Record(r.Context(), req.TokenAddress, *req.Price); err != nil {
		fmt.Printf("[PRICE] Error storing token price: %v\n", err)
		writeText(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeText(w, http.StatusCreated, "Token price stored successfully")
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	tokenAddress := r.PathValue("tokenAddress")

	prices, err := s.priceRepo.GetByToken(r.Context(), tokenAddress)
	if err != nil {
		fmt.Printf("[PRICE] Error fetching price history for %s: %v\n", tokenAddress, err)
		writeText(w, http.StatusInternalServerError, "Server error")
		return
	}
	if len(prices) == 0 {
		writeText(w, http.StatusNotFound, "No prices found for the given token address")
		return
	}

	writeJSON(w, http.StatusOK, prices)
}
