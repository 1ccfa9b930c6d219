package messaging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/config"
)

func newTwilioTestClient(t *testing.T, from string, h http.HandlerFunc) *TwilioClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewTwilioClient(config.TwilioConfig{
		AccountSID:   "AC1",
		AuthToken:    "secret",
		WhatsAppFrom: from,
		BaseURL:      srv.URL,
	}, srv.Client())
}

func TestTwilioClient_Send_Sandbox(t *testing.T) {
	c := newTwilioTestClient(t, config.TwilioSandboxFrom, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC1", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+5511987654321", r.PostForm.Get("To"))
		assert.Equal(t, config.TwilioSandboxFrom, r.PostForm.Get("From"))
		assert.Equal(t, "olá", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	})

	res, err := c.Send(context.Background(), "+5511987654321", "olá")
	require.NoError(t, err)
	assert.Equal(t, "SM1", res.MessageID)
	assert.Equal(t, "queued", res.Status)
	require.NotNil(t, res.SandboxInstructions)
	assert.True(t, res.SandboxInstructions.Required)
	assert.Equal(t, "+1 415 523 8886", res.SandboxInstructions.SandboxNumber)
}

func TestTwilioClient_Send_NoSandboxForProductionSender(t *testing.T) {
	c := newTwilioTestClient(t, "whatsapp:+5511900000000", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sid":"SM2","status":"queued"}`))
	})
	res, err := c.Send(context.Background(), "+5511987654321", "x")
	require.NoError(t, err)
	assert.Nil(t, res.SandboxInstructions)
}

func TestTwilioClient_Send_Errors(t *testing.T) {
	cases := []struct {
		body string
		kind ErrorKind
		msg  string
	}{
		{`{"code":63003,"message":"To number is not a valid WhatsApp user"}`, KindUnregistered, unregisteredMsg},
		{`{"code":63007,"message":"Recipient has not joined the sandbox"}`, KindSandboxJoin, sandboxJoinMessage},
		{`{"code":20003,"message":"Authenticate"}`, KindAPI, "Twilio WhatsApp API error: Authenticate"},
	}
	for _, tc := range cases {
		c := newTwilioTestClient(t, config.TwilioSandboxFrom, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := c.Send(context.Background(), "+5511987654321", "x")

		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, tc.kind, de.Kind)
		assert.Equal(t, tc.msg, de.Message)
	}
}

func TestFromConfig_Order(t *testing.T) {
	wa := config.WhatsAppConfig{AccessToken: "a", PhoneNumberID: "b"}
	tw := config.TwilioConfig{AccountSID: "c", AuthToken: "d", WhatsAppFrom: "e"}

	ps := FromConfig(wa, tw, nil)
	require.Len(t, ps, 2)
	assert.Equal(t, "meta", ps[0].Name())
	assert.Equal(t, "twilio", ps[1].Name())

	assert.Empty(t, FromConfig(config.WhatsAppConfig{}, config.TwilioConfig{}, nil))
}
