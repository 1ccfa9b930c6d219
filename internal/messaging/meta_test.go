package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/config"
)

func newMetaTestClient(t *testing.T, h http.HandlerFunc) *MetaClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewMetaClient(config.WhatsAppConfig{
		AccessToken:   "tok",
		PhoneNumberID: "123",
		GraphBaseURL:  srv.URL,
	}, srv.Client())
}

func TestMetaClient_Send(t *testing.T) {
	var got metaRequest
	c := newMetaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	})

	res, err := c.Send(context.Background(), "+5511987654321", "oi")
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", res.MessageID)
	assert.Equal(t, "https://wa.me/5511987654321", res.WhatsAppLink)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "5511987654321", got.To)
	assert.Equal(t, "oi", got.Text.Body)
}

func TestMetaClient_Send_ErrorCodes(t *testing.T) {
	cases := []struct {
		body string
		kind ErrorKind
		msg  string
	}{
		{`{"error":{"code":131026,"message":"x"}}`, KindUnregistered, "Número de telefone não é um usuário válido do WhatsApp"},
		{`{"error":{"code":131047,"message":"x"}}`, KindReengagement, "Re-engagement message não foi enviado"},
		{`{"error":{"code":100,"message":"bad param"}}`, KindAPI, "Meta WhatsApp API error: bad param"},
		{`garbage`, KindAPI, "Erro desconhecido ao enviar mensagem WhatsApp"},
	}
	for _, tc := range cases {
		c := newMetaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := c.Send(context.Background(), "+5511987654321", "oi")

		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, tc.kind, de.Kind)
		assert.Equal(t, tc.msg, de.Message)
		assert.Equal(t, "meta", de.Provider)
	}
}
