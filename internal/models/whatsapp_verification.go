package models

import "time"

// WhatsAppVerification — одна строка на каждую выдачу кода.
// verified переходит false -> true ровно один раз.
type WhatsAppVerification struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Verified    bool      `json:"verified"`
	Attempts    int       `json:"attempts"`
}

// IsExpired: код недействителен начиная с момента ExpiresAt.
func (v *WhatsAppVerification) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
