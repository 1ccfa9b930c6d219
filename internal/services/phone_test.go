package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"11987654321":         "+5511987654321",
		"+55 (11) 98765-4321": "+5511987654321",
		"5511987654321":       "+5511987654321",
		"+5511987654321":      "+5511987654321",
		"55119876543":         "+55119876543",
		"1198765432":          "+1198765432",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestPathPhone(t *testing.T) {
	assert.Equal(t, "+5511987654321", PathPhone("whatsapp:+5511987654321"))
	assert.Equal(t, "+5511987654321", PathPhone("11987654321"))
}
