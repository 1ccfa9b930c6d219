package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"

	"feiraja/internal/logger"
)

// WebhookPayload — подмножество формата Meta WhatsApp Cloud API, которое мы читаем.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []MessageStatus  `json:"statuses"`
}

type InboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
}

type MessageStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// WebhookSummary — что было обработано, для логов и ответа.
type WebhookSummary struct {
	Messages int `json:"messages"`
	Replies  int `json:"replies"`
	Statuses int `json:"statuses"`
}

type WebhookService struct {
	verifyToken string
	appSecret   string
	customers   CustomerService
	notifier    Notifier
	log         *zap.SugaredLogger
}

func NewWebhookService(verifyToken, appSecret string, customers CustomerService, notifier Notifier, log *zap.SugaredLogger) *WebhookService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WebhookService{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		customers:   customers,
		notifier:    notifier,
		log:         log,
	}
}

// VerifySubscription — handshake GET-запроса Meta.
func (s *WebhookService) VerifySubscription(mode, token string) bool {
	return mode == "subscribe" && token != "" && hmac.Equal([]byte(token), []byte(s.verifyToken))
}

// SignatureRequired: подпись проверяется только если задан app secret.
func (s *WebhookService) SignatureRequired() bool { return s.appSecret != "" }

// ValidSignature проверяет заголовок X-Hub-Signature-256 ("sha256=<hex>").
func (s *WebhookService) ValidSignature(header string, body []byte) bool {
	if s.appSecret == "" {
		return true
	}
	got, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	sig, err := hex.DecodeString(got)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.appSecret))
	mac.Write(body)
	return hmac.Equal(sig, mac.Sum(nil))
}

// Process обрабатывает входящие сообщения. Ошибки по отдельным сообщениям только логируются.
func (s *WebhookService) Process(ctx context.Context, p WebhookPayload) WebhookSummary {
	var sum WebhookSummary
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				sum.Statuses++
				s.log.Infow("[webhook][status]", "message_id", st.ID, "status", st.Status,
					"recipient", logger.MaskPhone(st.RecipientID))
			}
			for _, msg := range change.Value.Messages {
				sum.Messages++
				if s.handleMessage(ctx, msg) {
					sum.Replies++
				}
			}
		}
	}
	return sum
}

func (s *WebhookService) handleMessage(ctx context.Context, msg InboundMessage) bool {
	phone := NormalizePhone(msg.From)
	s.log.Infow("[webhook][message] received", "phone", logger.MaskPhone(phone), "type", msg.Type)

	if _, err := s.customers.EnsureInbound(ctx, phone); err != nil {
		s.log.Errorw("[webhook][message] ensure user failed", "phone", logger.MaskPhone(phone), "err", err)
	}
	if msg.Type != "text" || msg.Text == nil {
		return false
	}
	if _, err := s.notifier.Send(ctx, phone, AutoReplyMessage{Incoming: msg.Text.Body}); err != nil {
		s.log.Errorw("[webhook][message] auto-reply failed", "phone", logger.MaskPhone(phone), "err", err)
		return false
	}
	return true
}
