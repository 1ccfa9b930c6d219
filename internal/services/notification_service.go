package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"feiraja/internal/logger"
	"feiraja/internal/messaging"
)

// DeliveryResult — итог отправки: провайдер или симуляция.
type DeliveryResult struct {
	Success             bool                           `json:"success"`
	MessageID           string                         `json:"messageId"`
	Status              string                         `json:"status,omitempty"`
	WhatsAppLink        string                         `json:"whatsappLink,omitempty"`
	Provider            string                         `json:"provider"`
	Simulated           bool                           `json:"simulated"`
	SandboxInstructions *messaging.SandboxInstructions `json:"sandboxInstructions,omitempty"`
}

// Notifier delivers rendered messages to a phone number.
type Notifier interface {
	Send(ctx context.Context, phone string, msg Message) (*DeliveryResult, error)
}

type NotificationService struct {
	providers []messaging.Provider
	timeout   time.Duration
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewNotificationService: providers пробуются по порядку; пустой список включает симуляцию.
func NewNotificationService(providers []messaging.Provider, log *zap.SugaredLogger) *NotificationService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &NotificationService{
		providers: providers,
		timeout:   messaging.DefaultTimeout,
		now:       time.Now,
		log:       log,
	}
}

func (s *NotificationService) Simulated() bool { return len(s.providers) == 0 }

func (s *NotificationService) Send(ctx context.Context, phone string, msg Message) (*DeliveryResult, error) {
	if len(s.providers) == 0 {
		return s.simulate(phone, msg), nil
	}

	body := msg.Body()
	var lastErr error
	for i, p := range s.providers {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res, err := p.Send(callCtx, phone, body)
		cancel()
		if err == nil {
			s.log.Infow("[whatsapp][send] ok",
				"provider", p.Name(), "kind", msg.Kind(), "phone", logger.MaskPhone(phone), "message_id", res.MessageID)
			return &DeliveryResult{
				Success:             true,
				MessageID:           res.MessageID,
				Status:              res.Status,
				WhatsAppLink:        res.WhatsAppLink,
				Provider:            p.Name(),
				SandboxInstructions: res.SandboxInstructions,
			}, nil
		}
		lastErr = asDeliveryError(p.Name(), err)
		if i < len(s.providers)-1 {
			s.log.Warnw("[whatsapp][send] provider failed, falling back",
				"provider", p.Name(), "kind", msg.Kind(), "phone", logger.MaskPhone(phone), "err", err)
		}
	}
	s.log.Errorw("[whatsapp][send] all providers failed",
		"kind", msg.Kind(), "phone", logger.MaskPhone(phone), "err", lastErr)
	return nil, lastErr
}

func (s *NotificationService) simulate(phone string, msg Message) *DeliveryResult {
	id := simulatedIDPrefix[msg.Kind()] + "_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	link := messaging.WhatsAppLink(phone, msg.LinkText())
	s.log.Infow("[whatsapp][simulation] no provider configured",
		"kind", msg.Kind(), "phone", logger.MaskPhone(phone), "message", msg.Body(), "link", link)
	return &DeliveryResult{
		Success:      true,
		MessageID:    id,
		WhatsAppLink: link,
		Provider:     "simulation",
		Simulated:    true,
	}
}

func asDeliveryError(provider string, err error) error {
	var de *messaging.DeliveryError
	if errors.As(err, &de) {
		return de
	}
	return &messaging.DeliveryError{
		Provider: provider,
		Kind:     messaging.KindTransport,
		Message:  "Erro desconhecido ao enviar mensagem WhatsApp",
		Err:      err,
	}
}
