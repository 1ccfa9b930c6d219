package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"feiraja/internal/config"
	"feiraja/internal/logger"
	"feiraja/internal/models"
	"feiraja/internal/repositories"
	"feiraja/internal/utils"
)

// CodeRequest — кому и как персонализировать сообщение с кодом.
type CodeRequest struct {
	PhoneNumber   string
	RecipientName string
	KnownUser     bool
}

// CodeDispatch is the outcome of a successful code request.
type CodeDispatch struct {
	PhoneNumber string
	ExpiresIn   time.Duration
	Delivery    *DeliveryResult
}

// VerificationService — журнал одноразовых кодов: выдача, лимиты, погашение.
type VerificationService struct {
	repo     repositories.WhatsAppVerificationRepository
	notifier Notifier
	cfg      config.VerificationConfig
	log      *zap.SugaredLogger

	now     func() time.Time
	newCode func() (string, error)
}

func NewVerificationService(
	repo repositories.WhatsAppVerificationRepository,
	notifier Notifier,
	cfg config.VerificationConfig,
	log *zap.SugaredLogger,
) *VerificationService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &VerificationService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		newCode:  utils.NewVerificationCode,
	}
}

// RequestCode: лимит -> очистка просроченных -> новая запись -> отправка.
// Запись остаётся в базе, даже если отправка не удалась.
func (s *VerificationService) RequestCode(ctx context.Context, req CodeRequest) (*CodeDispatch, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, NewValidationError("Phone number is required")
	}
	phone := NormalizePhone(req.PhoneNumber)
	now := s.now()

	windowStart := now.Add(-s.cfg.RateWindow)
	count, err := s.repo.CountSince(ctx, phone, windowStart)
	if err != nil {
		return nil, err
	}
	if count >= s.cfg.MaxPerWindow {
		s.log.Warnw("[whatsapp][send-code] rate limited", "phone", logger.MaskPhone(phone), "recent", count)
		return nil, &RateLimitError{RetryAfter: s.cfg.RateWindow}
	}

	if n, err := s.repo.DeleteExpired(ctx, phone, now, windowStart); err != nil {
		s.log.Warnw("[whatsapp][send-code] cleanup failed", "phone", logger.MaskPhone(phone), "err", err)
	} else if n > 0 {
		s.log.Debugw("[whatsapp][send-code] expired codes removed", "phone", logger.MaskPhone(phone), "count", n)
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}
	rec := &models.WhatsAppVerification{
		PhoneNumber: phone,
		Code:        code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.CodeTTL),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	delivery, err := s.notifier.Send(ctx, phone, VerificationMessage{
		Code:      code,
		Name:      req.RecipientName,
		KnownUser: req.KnownUser,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch verification code: %w", err)
	}

	s.log.Infow("[whatsapp][send-code] ok", "phone", logger.MaskPhone(phone), "verification_id", rec.ID)
	return &CodeDispatch{PhoneNumber: phone, ExpiresIn: s.cfg.CodeTTL, Delivery: delivery}, nil
}

// VerifyCode погашает код. Неверный и просроченный код не различаются для вызывающего.
func (s *VerificationService) VerifyCode(ctx context.Context, rawPhone, code string) (*models.WhatsAppVerification, error) {
	code = strings.TrimSpace(code)
	if strings.TrimSpace(rawPhone) == "" || code == "" {
		return nil, NewValidationError("Phone number and code are required")
	}
	phone := NormalizePhone(rawPhone)

	rec, err := s.repo.Consume(ctx, phone, code, s.now())
	if err != nil {
		return nil, err
	}
	if rec == nil {
		if n, err := s.repo.IncrementAttempts(ctx, phone, code); err != nil {
			s.log.Warnw("[whatsapp][verify-code] attempts update failed", "phone", logger.MaskPhone(phone), "err", err)
		} else {
			s.log.Infow("[whatsapp][verify-code] rejected", "phone", logger.MaskPhone(phone), "matching_records", n)
		}
		return nil, ErrInvalidOrExpiredCode
	}

	s.log.Infow("[whatsapp][verify-code] ok", "phone", logger.MaskPhone(phone), "verification_id", rec.ID)
	return rec, nil
}

// RequireRecentVerification: регистрация допустима только при погашенном коде, выданном за последние RegistrationWindow.
func (s *VerificationService) RequireRecentVerification(ctx context.Context, phone string) error {
	rec, err := s.repo.LatestVerifiedSince(ctx, phone, s.now().Add(-s.cfg.RegistrationWindow))
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrVerificationRequired
	}
	return nil
}

// PurgeStale удаляет записи старше и окна лимита, и окна регистрации.
func (s *VerificationService) PurgeStale(ctx context.Context) (int64, error) {
	keep := s.cfg.RateWindow
	if s.cfg.RegistrationWindow > keep {
		keep = s.cfg.RegistrationWindow
	}
	return s.repo.PurgeCreatedBefore(ctx, s.now().Add(-keep))
}
