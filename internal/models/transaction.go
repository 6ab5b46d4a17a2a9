package models

import "time"

type Transaction struct {
	ID            int64     `json:"id"`
	TknName       string    `json:"tknName"`
	TokenQuantity float64   `json:"tokenQuantity"`
	Type          string    `json:"type"` // "buy" or "sell"
	EthQuantity   float64   `json:"ethQuantity"`
	UserAddress   string    `json:"userAddress"`
	TxHash        string    `json:"txHash"`
	Timestamp     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"createdAt"`
}
