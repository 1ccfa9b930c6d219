package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"feiraja/internal/logger"
	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

// WelcomeMailer шлёт приветственное письмо после регистрации.
type WelcomeMailer interface {
	SendWelcomeEmail(email, name string) error
}

// RegistrationAlerter сообщает операторам о новом покупателе.
type RegistrationAlerter interface {
	NotifyRegistration(ctx context.Context, c *models.Customer) error
}

// WhatsAppAuthService — онбординг по WhatsApp: проверка номера, код, регистрация, быстрый вход.
type WhatsAppAuthService struct {
	customers repositories.CustomerRepository
	addresses repositories.AddressRepository
	ledger    *VerificationService
	notifier  Notifier
	mailer    WelcomeMailer
	alerter   RegistrationAlerter
	log       *zap.SugaredLogger
}

func NewWhatsAppAuthService(
	customers repositories.CustomerRepository,
	addresses repositories.AddressRepository,
	ledger *VerificationService,
	notifier Notifier,
	mailer WelcomeMailer,
	alerter RegistrationAlerter,
	log *zap.SugaredLogger,
) *WhatsAppAuthService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WhatsAppAuthService{
		customers: customers,
		addresses: addresses,
		ledger:    ledger,
		notifier:  notifier,
		mailer:    mailer,
		alerter:   alerter,
		log:       log,
	}
}

func requirePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", NewValidationError("Phone number is required")
	}
	return NormalizePhone(raw), nil
}

func (s *WhatsAppAuthService) CheckUser(ctx context.Context, rawPhone string) (*models.UserCheck, error) {
	phone, err := requirePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.UserCheck{IsFirstTime: true}, nil
	}
	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserCheck{
		UserExists:             true,
		IsFirstTime:            c.IsFirstTime,
		HasBasketConfiguration: c.HasBasketConfiguration(),
		HasAddress:             len(addrs) > 0,
		UserInfo: &models.UserInfo{
			ID:              c.ID,
			Name:            c.Name,
			Email:           c.Email,
			SelectedBoxSize: c.SelectedBoxSize,
			DeliveryDay:     c.DeliveryDay,
			HouseholdSize:   c.HouseholdSize,
		},
	}, nil
}

// SendCode выдаёт код; шаблон сообщения зависит от того, знаком ли нам номер.
func (s *WhatsAppAuthService) SendCode(ctx context.Context, rawPhone string) (*CodeDispatch, error) {
	phone, err := requirePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	req := CodeRequest{PhoneNumber: phone}
	if c != nil {
		req.KnownUser = true
		if c.Name != nil {
			req.RecipientName = *c.Name
		}
	}
	return s.ledger.RequestCode(ctx, req)
}

func (s *WhatsAppAuthService) VerifyCode(ctx context.Context, rawPhone, code string) (*models.VerifyResult, error) {
	rec, err := s.ledger.VerifyCode(ctx, rawPhone, code)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.GetByPhone(ctx, rec.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.VerifyResult{Success: true, RequiresRegistration: true, PhoneNumber: rec.PhoneNumber}, nil
	}
	profile, err := s.profile(ctx, c, false)
	if err != nil {
		return nil, err
	}
	return &models.VerifyResult{Success: true, UserExists: true, User: profile}, nil
}

func (s *WhatsAppAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.CustomerProfile, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.Name) == "" ||
		req.SelectedBoxSize == 0 || strings.TrimSpace(req.DeliveryDay) == "" || req.HouseholdSize == 0 {
		return nil, NewValidationError("Nome, tamanho da cesta, dia de entrega e tamanho do lar são obrigatórios")
	}
	phone := NormalizePhone(req.PhoneNumber)

	if err := s.ledger.RequireRecentVerification(ctx, phone); err != nil {
		return nil, err
	}

	existing, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	name := strings.TrimSpace(req.Name)
	deliveryDay := req.DeliveryDay
	boxSize, household := int(req.SelectedBoxSize), int(req.HouseholdSize)
	c := &models.Customer{
		PhoneNumber:     phone,
		Name:            &name,
		Email:           nonEmpty(req.Email),
		IsFirstTime:     false,
		SelectedBoxSize: &boxSize,
		DeliveryDay:     &deliveryDay,
		HouseholdSize:   &household,
		Preferences:     req.Preferences,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	var addrs []*models.Address
	if req.Address != nil {
		in := *req.Address
		in.UserID = c.ID
		in.IsDefault = true
		if strings.TrimSpace(in.Name) == "" {
			in.Name = "Casa"
		}
		a, err := s.addresses.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}

	s.log.Infow("[whatsapp][register] user created", "phone", logger.MaskPhone(phone), "user_id", c.ID)
	s.afterRegistration(ctx, c)

	created, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = c
	}
	p := models.NewCustomerProfile(created, addrs)
	p.Addresses = nil
	return p, nil
}

// afterRegistration — приветствия и уведомление операторов; ошибки только логируем.
func (s *WhatsAppAuthService) afterRegistration(ctx context.Context, c *models.Customer) {
	if _, err := s.notifier.Send(ctx, c.PhoneNumber, WelcomeMessage{Name: c.DisplayName()}); err != nil {
		s.log.Warnw("[whatsapp][register] welcome message failed", "phone", logger.MaskPhone(c.PhoneNumber), "err", err)
	}
	if s.mailer != nil && c.Email != nil {
		if err := s.mailer.SendWelcomeEmail(*c.Email, c.DisplayName()); err != nil {
			s.log.Warnw("[whatsapp][register] welcome email failed", "user_id", c.ID, "err", err)
		}
	}
	if s.alerter != nil {
		if err := s.alerter.NotifyRegistration(ctx, c); err != nil {
			s.log.Warnw("[whatsapp][register] ops alert failed", "user_id", c.ID, "err", err)
		}
	}
}

func (s *WhatsAppAuthService) QuickLogin(ctx context.Context, rawPhone string) (*models.CustomerProfile, error) {
	phone, err := requirePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return s.profile(ctx, c, true)
}

func (s *WhatsAppAuthService) profile(ctx context.Context, c *models.Customer, withAddresses bool) (*models.CustomerProfile, error) {
	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	p := models.NewCustomerProfile(c, addrs)
	if !withAddresses {
		p.Addresses = nil
	}
	return p, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
