package models

// OrderSummary carries what the order-confirmation message needs.
type OrderSummary struct {
	ID           string  `json:"id" binding:"required"`
	CustomerName string  `json:"customerName" binding:"required"`
	Total        float64 `json:"total"`
	DeliveryDate string  `json:"deliveryDate"`
	Address      string  `json:"address"`
}
