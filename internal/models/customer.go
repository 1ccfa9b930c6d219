package models

import (
	"encoding/json"
	"time"
)

// Customer — покупатель, ключ — нормализованный номер телефона.
type Customer struct {
	ID              int             `json:"id"`
	PhoneNumber     string          `json:"phoneNumber"`
	Name            *string         `json:"name"`
	Email           *string         `json:"email"`
	IsFirstTime     bool            `json:"isFirstTime"`
	SelectedBoxSize *int            `json:"selectedBoxSize"`
	DeliveryDay     *string         `json:"deliveryDay"`
	HouseholdSize   *int            `json:"householdSize"`
	Preferences     json.RawMessage `json:"preferences"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	BoxPrice *BoxPrice `json:"boxPrice"`
}

// HasBasketConfiguration — все три параметра корзины заданы.
func (c *Customer) HasBasketConfiguration() bool {
	return c != nil &&
		c.SelectedBoxSize != nil && *c.SelectedBoxSize != 0 &&
		c.DeliveryDay != nil && *c.DeliveryDay != "" &&
		c.HouseholdSize != nil && *c.HouseholdSize != 0
}

func (c *Customer) DisplayName() string {
	if c == nil || c.Name == nil || *c.Name == "" {
		return "Cliente"
	}
	return *c.Name
}

// CustomerProfile is the JSON shape returned by the onboarding and profile endpoints.
type CustomerProfile struct {
	ID              int             `json:"id"`
	PhoneNumber     string          `json:"phoneNumber"`
	Name            *string         `json:"name"`
	Email           *string         `json:"email"`
	IsFirstTime     bool            `json:"isFirstTime"`
	SelectedBoxSize *int            `json:"selectedBoxSize"`
	DeliveryDay     *string         `json:"deliveryDay"`
	HouseholdSize   *int            `json:"householdSize"`
	Preferences     json.RawMessage `json:"preferences"`
	HasAddresses    bool            `json:"hasAddresses"`
	BoxPrice        *BoxPrice       `json:"boxPrice"`
	Addresses       []*Address      `json:"addresses,omitempty"`
}

func NewCustomerProfile(c *Customer, addresses []*Address) *CustomerProfile {
	return &CustomerProfile{
		ID:              c.ID,
		PhoneNumber:     c.PhoneNumber,
		Name:            c.Name,
		Email:           c.Email,
		IsFirstTime:     c.IsFirstTime,
		SelectedBoxSize: c.SelectedBoxSize,
		DeliveryDay:     c.DeliveryDay,
		HouseholdSize:   c.HouseholdSize,
		Preferences:     c.Preferences,
		HasAddresses:    len(addresses) > 0,
		BoxPrice:        c.BoxPrice,
		Addresses:       addresses,
	}
}
