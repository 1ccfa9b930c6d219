package services

import (
	"context"
	"errors"
	"strings"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

const msgCategoryInUse = "Cannot delete category with existing products"

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoryService interface {
	// List: публичная витрина видит только непустые категории, админка все.
	List(ctx context.Context, includeEmpty bool) ([]*models.Category, error)
	Create(ctx context.Context, in CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int, in CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int) error
}

type categoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, includeEmpty bool) ([]*models.Category, error) {
	return s.repo.List(ctx, !includeEmpty)
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("Category name is required")
	}
	c := &models.Category{Name: name}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return c, nil
}

// Update: пустое имя означает "не менять", описание можно очистить пустой строкой.
func (s *categoryService) Update(ctx context.Context, id int, in CategoryInput) (*models.Category, error) {
	patch := repositories.CategoryPatch{Description: in.Description}
	if name := strings.TrimSpace(in.Name); name != "" {
		patch.Name = &name
	}
	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id int) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	if c.Count.Products > 0 {
		return NewValidationError(msgCategoryInUse)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return NewValidationError(msgCategoryInUse)
		}
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
