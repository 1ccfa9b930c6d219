package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511987654321", WhatsAppLink("+55 (11) 98765-4321", ""))
	assert.Equal(t,
		"https://wa.me/5511987654321?text=C%C3%B3digo%3A%20123456",
		WhatsAppLink("+5511987654321", "Código: 123456"))
}

func TestMetaRecipient(t *testing.T) {
	assert.Equal(t, "5511987654321", MetaRecipient("+5511987654321"))
	assert.Equal(t, "5511987654321", MetaRecipient("11987654321"))
}
