package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"feiraja/internal/messaging"
	"feiraja/internal/repositories/repotest"
	"feiraja/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", services.NewValidationError("Phone number is required"), http.StatusBadRequest, "Phone number is required"},
		{"rate limit", &services.RateLimitError{RetryAfter: time.Hour}, http.StatusTooManyRequests, msgRateLimited},
		{"bad code", services.ErrInvalidOrExpiredCode, http.StatusBadRequest, msgInvalidCode},
		{"not verified", services.ErrVerificationRequired, http.StatusBadRequest, msgNotVerified},
		{"conflict", services.ErrConflict, http.StatusBadRequest, msgUserExists},
		{"not found", fmt.Errorf("lookup: %w", services.ErrNotFound), http.StatusNotFound, msgUserNotFound},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, msgInvalidCreds},
		{"delivery", fmt.Errorf("dispatch: %w", &messaging.DeliveryError{
			Provider: "meta", Kind: messaging.KindUnregistered, Message: "Número de telefone não é um usuário válido do WhatsApp",
		}), http.StatusBadGateway, "Número de telefone não é um usuário válido do WhatsApp"},
		{"other", errors.New("boom"), http.StatusInternalServerError, msgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			core, logs := observer.New(zap.WarnLevel)
			respondError(c, zap.New(core).Sugar(), tc.err, userErrText)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
			if tc.status == http.StatusTooManyRequests {
				assert.EqualValues(t, 3600, body["retryAfter"])
			}
			if tc.status >= http.StatusInternalServerError {
				assert.Equal(t, 1, logs.Len(), "5xx must be logged through the injected logger")
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func newSignedWebhookRouter(secret string) *gin.Engine {
	store := repotest.New()
	notifier := services.NewNotificationService(nil, nil)
	customers := services.NewCustomerService(store.Customers(), store.Addresses(), nil)
	h := NewWebhookHandler(services.NewWebhookService("token", secret, customers, notifier, nil), nil)

	r := gin.New()
	r.POST("/webhook", h.Receive)
	r.POST("/user-access", h.UserAccess)
	return r
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_Signature(t *testing.T) {
	r := newSignedWebhookRouter("app-secret")
	body := `{"object":"whatsapp_business_account","entry":[]}`

	post := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		if sig != "" {
			req.Header.Set(signatureHeader, sig)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, post("").Code)
	assert.Equal(t, http.StatusUnauthorized, post(sign("other", body)).Code)
	assert.Equal(t, http.StatusOK, post(sign("app-secret", body)).Code)
}

func TestWebhook_BadJSON(t *testing.T) {
	r := newSignedWebhookRouter("")
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_UserAccess(t *testing.T) {
	r := newSignedWebhookRouter("")
	req := httptest.NewRequest(http.MethodPost, "/user-access",
		strings.NewReader(`{"isFirstTime":true,"timestamp":"2026-01-02T10:00:00Z","userAgent":"Mozilla/5.0"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			IsFirstTime bool   `json:"isFirstTime"`
			Timestamp   string `json:"timestamp"`
			Processed   string `json:"processed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.IsFirstTime)
	assert.Equal(t, "2026-01-02T10:00:00Z", body.Data.Timestamp)
	assert.NotEmpty(t, body.Data.Processed)
}

func TestWebhook_UserAccessTruncatesUserAgentOnRuneBoundary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewWebhookHandler(nil, zap.New(core).Sugar())
	r := gin.New()
	r.POST("/user-access", h.UserAccess)

	// 'ã' занимает 2 байта: байтовый срез на 100 разрезал бы символ
	ua := "a" + strings.Repeat("ã", 120)
	payload, err := json.Marshal(map[string]any{"isFirstTime": false, "userAgent": ua})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/user-access", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("[webhook][user-access]").All()
	require.Len(t, entries, 1)
	logged, ok := entries[0].ContextMap()["user_agent"].(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(logged))
	assert.Equal(t, 100, utf8.RuneCountInString(logged))
	assert.Equal(t, "a"+strings.Repeat("ã", 99), logged)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 100))
	assert.Equal(t, "São", truncateRunes("São Paulo", 3))
	assert.Equal(t, "", truncateRunes("", 3))
}

func TestHealth_NotConfigured(t *testing.T) {
	h := NewHealthHandler(false)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	h.Health(c)

	assert.JSONEq(t, `{"status":"healthy","timestamp":"2026-03-01T12:00:00Z","version":"2.0.0","database":"not configured"}`, w.Body.String())
}
