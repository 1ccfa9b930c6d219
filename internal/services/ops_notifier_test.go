package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/config"
	"feiraja/internal/models"
)

func TestTelegramOpsNotifier_NotifyRegistration(t *testing.T) {
	var sentText, sentChat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"ops","username":"ops_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			require.NoError(t, r.ParseForm())
			sentText = r.PostForm.Get("text")
			sentChat = r.PostForm.Get("chat_id")
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n, err := newTelegramOpsNotifier(config.TelegramConfig{BotToken: "tok", OpsChatID: -100}, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	name, day, size := "Ana", "terça", 2
	err = n.NotifyRegistration(context.Background(), &models.Customer{
		PhoneNumber: "+5511987654321", Name: &name, DeliveryDay: &day, SelectedBoxSize: &size,
	})
	require.NoError(t, err)
	assert.Equal(t, "-100", sentChat)
	assert.Contains(t, sentText, "Nome: Ana")
	assert.Contains(t, sentText, "Telefone: +5511***")
	assert.Contains(t, sentText, "Cesta: 2")
}

func TestTelegramOpsNotifier_RequiresConfig(t *testing.T) {
	_, err := NewTelegramOpsNotifier(config.TelegramConfig{}, nil)
	assert.Error(t, err)
}

func TestWelcomeEmail_Headers(t *testing.T) {
	m := newWelcomeEmail("noreply@feiraja.app", "ana@example.com", "Ana")
	assert.Equal(t, []string{"ana@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Bem-vindo à Feirajá!"}, m.GetHeader("Subject"))
}
