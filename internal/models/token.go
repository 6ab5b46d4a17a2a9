package models

import "time"

type Token struct {
	ID           int64     `json:"id"`
	TokenAddress string    `json:"tokenAddress"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Twitter      *string   `json:"twitter"`
	Telegram     *string   `json:"telegram"`
	Website      *string   `json:"website"`
	ImageURL     *string   `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
