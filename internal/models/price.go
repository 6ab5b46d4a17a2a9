package models

import "time"

type TokenPrice struct {
	ID           int64     `json:"id"`
	TokenAddress string    `json:"tokenAddress"`
	Price        float64   `json:"price"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}
