package models

import "encoding/json"

// UserInfo — краткая карточка в ответе check-user.
type UserInfo struct {
	ID              int     `json:"id"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	SelectedBoxSize *int    `json:"selectedBoxSize"`
	DeliveryDay     *string `json:"deliveryDay"`
	HouseholdSize   *int    `json:"householdSize"`
}

type UserCheck struct {
	UserExists             bool      `json:"userExists"`
	IsFirstTime            bool      `json:"isFirstTime"`
	HasBasketConfiguration bool      `json:"hasBasketConfiguration"`
	HasAddress             bool      `json:"hasAddress"`
	UserInfo               *UserInfo `json:"userInfo"`
}

type UserStatus struct {
	Exists                 bool    `json:"exists"`
	UserID                 *int    `json:"userId,omitempty"`
	IsFirstTime            bool    `json:"isFirstTime"`
	HasBasketConfiguration bool    `json:"hasBasketConfiguration"`
	HasAddress             bool    `json:"hasAddress"`
	SelectedBoxSize        *int    `json:"selectedBoxSize,omitempty"`
	DeliveryDay            *string `json:"deliveryDay,omitempty"`
	HouseholdSize          *int    `json:"householdSize,omitempty"`
}

// VerifyResult: либо профиль существующего покупателя, либо телефон для регистрации.
type VerifyResult struct {
	Success              bool             `json:"success"`
	UserExists           bool             `json:"userExists"`
	RequiresRegistration bool             `json:"requiresRegistration"`
	User                 *CustomerProfile `json:"user,omitempty"`
	PhoneNumber          string           `json:"phoneNumber,omitempty"`
}

type RegisterRequest struct {
	PhoneNumber     string          `json:"phoneNumber"`
	Name            string          `json:"name"`
	Email           *string         `json:"email"`
	SelectedBoxSize FlexInt         `json:"selectedBoxSize" swaggertype:"integer"`
	DeliveryDay     string          `json:"deliveryDay"`
	HouseholdSize   FlexInt         `json:"householdSize" swaggertype:"integer"`
	Preferences     json.RawMessage `json:"preferences" swaggertype:"object"`
	Address         *AddressInput   `json:"address"`
}

// BasketRequest — тело PUT /users/:phone/basket. IsFirstTime по умолчанию false.
type BasketRequest struct {
	SelectedBoxSize *int            `json:"selectedBoxSize"`
	DeliveryDay     *string         `json:"deliveryDay"`
	HouseholdSize   *int            `json:"householdSize"`
	Preferences     json.RawMessage `json:"preferences" swaggertype:"object"`
	IsFirstTime     *bool           `json:"isFirstTime"`
}
