package models

import "time"

// BoxPrice — ценовой уровень корзины; profile_type совпадает с selectedBoxSize покупателя.
type BoxPrice struct {
	ID          int       `json:"id"`
	ProfileType int       `json:"profileType"`
	Name        string    `json:"name"`
	BasePrice   float64   `json:"basePrice"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
