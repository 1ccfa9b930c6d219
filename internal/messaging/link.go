package messaging

import (
	"net/url"
	"strings"
)

// Digits оставляет только цифры.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds https://wa.me/<digits>?text=<message>; an empty text yields no query.
func WhatsAppLink(phone, text string) string {
	link := "https://wa.me/" + Digits(phone)
	if text == "" {
		return link
	}
	return link + "?text=" + encodeComponent(text)
}

// encodeComponent кодирует как encodeURIComponent: пробел -> %20, а не "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
