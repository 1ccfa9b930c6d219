package services

import (
	"context"
	"errors"
	"strings"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

type BoxPriceInput struct {
	ProfileType int     `json:"profileType"`
	Name        string  `json:"name"`
	BasePrice   float64 `json:"basePrice"`
	ItemCount   int     `json:"itemCount"`
}

// BoxPriceUpdate — частичное обновление; отсутствующие поля не меняются.
type BoxPriceUpdate struct {
	Name      *string  `json:"name"`
	BasePrice *float64 `json:"basePrice"`
	ItemCount *int     `json:"itemCount"`
}

type BoxPriceService interface {
	List(ctx context.Context) ([]*models.BoxPrice, error)
	Get(ctx context.Context, id int) (*models.BoxPrice, error)
	Create(ctx context.Context, in BoxPriceInput) (*models.BoxPrice, error)
	Update(ctx context.Context, id int, in BoxPriceUpdate) (*models.BoxPrice, error)
	Delete(ctx context.Context, id int) error
}

type boxPriceService struct {
	repo repositories.BoxPriceRepository
}

func NewBoxPriceService(repo repositories.BoxPriceRepository) BoxPriceService {
	return &boxPriceService{repo: repo}
}

func (s *boxPriceService) List(ctx context.Context) ([]*models.BoxPrice, error) {
	return s.repo.List(ctx)
}

func (s *boxPriceService) Get(ctx context.Context, id int) (*models.BoxPrice, error) {
	bp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, ErrNotFound
	}
	return bp, nil
}

func (s *boxPriceService) Create(ctx context.Context, in BoxPriceInput) (*models.BoxPrice, error) {
	if in.ProfileType == 0 || strings.TrimSpace(in.Name) == "" || in.BasePrice == 0 || in.ItemCount == 0 {
		return nil, NewValidationError("Profile type, name, base price, and item count are required")
	}
	bp := &models.BoxPrice{
		ProfileType: in.ProfileType,
		Name:        strings.TrimSpace(in.Name),
		BasePrice:   in.BasePrice,
		ItemCount:   in.ItemCount,
	}
	if err := s.repo.Create(ctx, bp); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return bp, nil
}

func (s *boxPriceService) Update(ctx context.Context, id int, in BoxPriceUpdate) (*models.BoxPrice, error) {
	patch := repositories.BoxPricePatch{ItemCount: in.ItemCount, BasePrice: in.BasePrice}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	// нули трактуем как "не задано"
	if patch.BasePrice != nil && *patch.BasePrice == 0 {
		patch.BasePrice = nil
	}
	if patch.ItemCount != nil && *patch.ItemCount == 0 {
		patch.ItemCount = nil
	}
	bp, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, ErrNotFound
	}
	return bp, nil
}

func (s *boxPriceService) Delete(ctx context.Context, id int) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
