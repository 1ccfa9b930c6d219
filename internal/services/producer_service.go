package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

const msgProducerInUse = "Cannot delete producer with associated products. Remove products first or deactivate the producer."

type ProducerInput struct {
	Name           string          `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	Location       *string         `json:"location"`
	Story          *string         `json:"story"`
	Certifications json.RawMessage `json:"certifications" swaggertype:"array,string"`
}

// ProducerUpdate: отсутствующее поле не меняется, пустая строка обнуляет.
type ProducerUpdate struct {
	Name           *string          `json:"name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Location       *string          `json:"location"`
	Story          *string          `json:"story"`
	Certifications json.RawMessage  `json:"certifications" swaggertype:"array,string"`
	IsActive       *models.FlexBool `json:"isActive" swaggertype:"boolean"`
}

type ProducerQuery struct {
	Search   string
	IsActive *bool
	Page     Page
}

type ProducerService interface {
	List(ctx context.Context, q ProducerQuery) (*models.ProducerPage, error)
	Get(ctx context.Context, id int) (*models.ProducerDetail, error)
	Create(ctx context.Context, in ProducerInput) (*models.Producer, error)
	Update(ctx context.Context, id int, in ProducerUpdate) (*models.Producer, error)
	Delete(ctx context.Context, id int) error
}

type producerService struct {
	repo repositories.ProducerRepository
}

func NewProducerService(repo repositories.ProducerRepository) ProducerService {
	return &producerService{repo: repo}
}

func (s *producerService) List(ctx context.Context, q ProducerQuery) (*models.ProducerPage, error) {
	page := q.Page.Normalize()
	list, total, err := s.repo.List(ctx, repositories.ProducerFilter{
		Search:   q.Search,
		IsActive: q.IsActive,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &models.ProducerPage{
		Producers:  list,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages(total, page.Limit),
	}, nil
}

func (s *producerService) Get(ctx context.Context, id int) (*models.ProducerDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	products, err := s.repo.ListProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ProducerDetail{Producer: *p, Products: products}, nil
}

func (s *producerService) Create(ctx context.Context, in ProducerInput) (*models.Producer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("Producer name is required")
	}
	p := &models.Producer{
		Name:           name,
		Email:          nonEmpty(in.Email),
		Phone:          nonEmpty(in.Phone),
		Location:       nonEmpty(in.Location),
		Story:          nonEmpty(in.Story),
		Certifications: normalizeJSONList(in.Certifications),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return p, nil
}

func (s *producerService) Update(ctx context.Context, id int, in ProducerUpdate) (*models.Producer, error) {
	patch := repositories.ProducerPatch{
		Name:           nonEmpty(in.Name),
		Email:          clearable(in.Email),
		Phone:          clearable(in.Phone),
		Location:       clearable(in.Location),
		Story:          clearable(in.Story),
		Certifications: normalizeJSONList(in.Certifications),
		IsActive:       in.IsActive.Ptr(),
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *producerService) Delete(ctx context.Context, id int) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.Count.Products > 0 {
		return NewValidationError(msgProducerInUse)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return NewValidationError(msgProducerInUse)
		}
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func clearable(s *string) repositories.NullableString {
	if s == nil {
		return repositories.NullableString{}
	}
	return repositories.NullableString{Set: true, Value: nonEmpty(s)}
}
