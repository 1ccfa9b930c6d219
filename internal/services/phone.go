package services

import (
	"strings"

	"feiraja/internal/messaging"
)

const brazilCountryCode = "55"

// NormalizePhone: только цифры; 11-значный национальный номер без "55" получает код страны; затем "+".
// Другие длины проходят без изменений, кроме префикса "+".
func NormalizePhone(raw string) string {
	digits := messaging.Digits(raw)
	if len(digits) == 11 && !strings.HasPrefix(digits, brazilCountryCode) {
		digits = brazilCountryCode + digits
	}
	return "+" + digits
}

// PathPhone нормализует номер из URL, допускается префикс "whatsapp:".
func PathPhone(raw string) string {
	return NormalizePhone(strings.TrimPrefix(strings.TrimSpace(raw), "whatsapp:"))
}
