package models

import "time"

type Address struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	Name         string    `json:"name"`
	Street       string    `json:"street"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	Complement   string    `json:"complement"`
	Reference    string    `json:"reference"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AddressInput struct {
	UserID       int    `json:"userId"`
	Name         string `json:"name"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Complement   string `json:"complement"`
	Reference    string `json:"reference"`
	IsDefault    bool   `json:"isDefault"`
}
