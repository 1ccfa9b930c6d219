package services

import (
	"context"
	"strings"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

type AddressService interface {
	List(ctx context.Context, userID *int) ([]*models.Address, error)
	Get(ctx context.Context, id int) (*models.Address, error)
	Create(ctx context.Context, in models.AddressInput) (*models.Address, error)
}

type addressService struct {
	repo repositories.AddressRepository
}

func NewAddressService(repo repositories.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) List(ctx context.Context, userID *int) ([]*models.Address, error) {
	if userID != nil {
		return s.repo.ListByUser(ctx, *userID)
	}
	return s.repo.ListAll(ctx)
}

func (s *addressService) Get(ctx context.Context, id int) (*models.Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *addressService) Create(ctx context.Context, in models.AddressInput) (*models.Address, error) {
	for _, v := range []string{in.Name, in.Street, in.Neighborhood, in.City, in.State, in.ZipCode} {
		if strings.TrimSpace(v) == "" {
			return nil, NewValidationError("Name, street, neighborhood, city, state, and zipCode are required")
		}
	}
	if in.UserID <= 0 {
		return nil, NewValidationError("userId is required")
	}
	return s.repo.Create(ctx, in)
}
