package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"feiraja/internal/logger"
	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

type CustomerService interface {
	Profile(ctx context.Context, phone string) (*models.CustomerProfile, error)
	Status(ctx context.Context, phone string) (*models.UserStatus, error)
	UpdateBasket(ctx context.Context, phone string, req models.BasketRequest) (*models.CustomerProfile, error)
	EnsureInbound(ctx context.Context, phone string) (*models.Customer, error)
	Authenticate(ctx context.Context, phone string) (*models.CustomerProfile, error)
}

type customerService struct {
	customers repositories.CustomerRepository
	addresses repositories.AddressRepository
	log       *zap.SugaredLogger
}

func NewCustomerService(customers repositories.CustomerRepository, addresses repositories.AddressRepository, log *zap.SugaredLogger) CustomerService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &customerService{customers: customers, addresses: addresses, log: log}
}

func (s *customerService) Profile(ctx context.Context, phone string) (*models.CustomerProfile, error) {
	c, err := s.customers.GetByPhone(ctx, PathPhone(phone))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return models.NewCustomerProfile(c, addrs), nil
}

func (s *customerService) Status(ctx context.Context, phone string) (*models.UserStatus, error) {
	c, err := s.customers.GetByPhone(ctx, PathPhone(phone))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.UserStatus{IsFirstTime: true}, nil
	}
	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	id := c.ID
	return &models.UserStatus{
		Exists:                 true,
		UserID:                 &id,
		IsFirstTime:            c.IsFirstTime,
		HasBasketConfiguration: c.HasBasketConfiguration(),
		HasAddress:             len(addrs) > 0,
		SelectedBoxSize:        c.SelectedBoxSize,
		DeliveryDay:            c.DeliveryDay,
		HouseholdSize:          c.HouseholdSize,
	}, nil
}

func (s *customerService) UpdateBasket(ctx context.Context, phone string, req models.BasketRequest) (*models.CustomerProfile, error) {
	phone = PathPhone(phone)
	upd := repositories.BasketUpdate{
		SelectedBoxSize: req.SelectedBoxSize,
		DeliveryDay:     req.DeliveryDay,
		HouseholdSize:   req.HouseholdSize,
		Preferences:     req.Preferences,
	}
	if req.IsFirstTime != nil {
		upd.IsFirstTime = *req.IsFirstTime
	}
	c, err := s.customers.UpdateBasket(ctx, phone, upd)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	s.log.Infow("[users][basket] updated", "phone", logger.MaskPhone(phone))

	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	p := models.NewCustomerProfile(c, addrs)
	p.Addresses = nil
	return p, nil
}

// EnsureInbound — входящее сообщение от незнакомого номера создаёт покупателя с isFirstTime=true.
func (s *customerService) EnsureInbound(ctx context.Context, phone string) (*models.Customer, error) {
	c, created, err := s.customers.EnsureByPhone(ctx, NormalizePhone(phone))
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Infow("[webhook][user] new user created", "phone", logger.MaskPhone(c.PhoneNumber))
	}
	return c, nil
}

// Authenticate — вход по номеру без кода: находит или создаёт покупателя.
func (s *customerService) Authenticate(ctx context.Context, phone string) (*models.CustomerProfile, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, NewValidationError("Phone number is required")
	}
	phone = PathPhone(phone)
	c, created, err := s.customers.EnsureByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Infow("[users][authenticate] new user created", "phone", logger.MaskPhone(phone))
	}
	addrs, err := s.addresses.ListByUser(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	p := models.NewCustomerProfile(c, addrs)
	p.Addresses = nil
	return p, nil
}
