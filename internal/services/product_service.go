package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

// ProductInput — общее тело создания и изменения.
// При изменении пустые/нулевые поля означают "не менять".
type ProductInput struct {
	Name            string
	Description     *string
	Price           float64
	CategoryID      int
	InStock         *bool
	ImageURL        *string
	Image           *ImageUpload
	Origin          *models.ProductOrigin
	NutritionalInfo *models.NutritionalInfo
}

type ProductQuery struct {
	// Category — id или имя; "Todas" и пусто означают без фильтра.
	Category string
	Search   string
	InStock  *bool
	Page     Page
}

type ProductService interface {
	List(ctx context.Context, q ProductQuery) (*models.ProductPage, error)
	Get(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int, in ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

type productService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	producers  repositories.ProducerRepository
	images     ImageStore
	log        *zap.SugaredLogger
}

func NewProductService(
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	producers repositories.ProducerRepository,
	images ImageStore,
	log *zap.SugaredLogger,
) ProductService {
	if images == nil {
		images = DataURLStore{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &productService{products: products, categories: categories, producers: producers, images: images, log: log}
}

func (s *productService) List(ctx context.Context, q ProductQuery) (*models.ProductPage, error) {
	page := q.Page.Normalize()
	f := repositories.ProductFilter{
		Search:  q.Search,
		InStock: q.InStock,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}
	if cat := strings.TrimSpace(q.Category); cat != "" && cat != "Todas" {
		if id, err := strconv.Atoi(cat); err == nil {
			f.CategoryID = &id
		} else {
			f.CategoryName = cat
		}
	}
	list, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &models.ProductPage{
		Products:   list,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages(total, page.Limit),
	}, nil
}

func (s *productService) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price <= 0 || in.CategoryID <= 0 {
		return nil, NewValidationError("Name, price, and category are required")
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	image, err := s.image(ctx, in)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:            name,
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		Image:           image,
		InStock:         in.InStock == nil || *in.InStock,
		Origin:          cleanOrigin(in.Origin),
		NutritionalInfo: cleanNutrition(in.NutritionalInfo),
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, mapProductErr(err)
	}
	s.log.Infow("[catalog][product] created", "product_id", p.ID, "category_id", p.CategoryID)
	return s.Get(ctx, p.ID)
}

func (s *productService) Update(ctx context.Context, id int, in ProductInput) (*models.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	image, err := s.image(ctx, in)
	if err != nil {
		return nil, err
	}

	patch := repositories.ProductPatch{
		Name:            nonEmpty(&in.Name),
		Description:     in.Description,
		InStock:         in.InStock,
		Image:           image,
		Origin:          cleanOrigin(in.Origin),
		NutritionalInfo: cleanNutrition(in.NutritionalInfo),
	}
	if in.Price > 0 {
		patch.Price = &in.Price
	}
	if in.CategoryID > 0 {
		patch.CategoryID = &in.CategoryID
	}
	ok, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, mapProductErr(err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id int) error {
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// checkRefs: категория и производитель (если заданы) должны существовать.
func (s *productService) checkRefs(ctx context.Context, in ProductInput) error {
	if in.CategoryID > 0 {
		c, err := s.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return NewValidationError("Invalid category")
		}
	}
	if in.Origin != nil && in.Origin.ProducerID != nil {
		p, err := s.producers.GetByID(ctx, *in.Origin.ProducerID)
		if err != nil {
			return err
		}
		if p == nil {
			return NewValidationError("Invalid producer")
		}
	}
	return nil
}

// image: загруженный файл важнее ссылки из JSON.
func (s *productService) image(ctx context.Context, in ProductInput) (*string, error) {
	if in.Image != nil {
		if len(in.Image.Data) > MaxImageSize {
			return nil, NewValidationError("Image must be 5MB or smaller")
		}
		url, err := s.images.Save(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		return &url, nil
	}
	return nonEmpty(in.ImageURL), nil
}

func cleanOrigin(o *models.ProductOrigin) *models.ProductOrigin {
	if o == nil {
		return nil
	}
	c := *o
	c.Producer = nonEmpty(c.Producer)
	c.Location = nonEmpty(c.Location)
	c.Distance = nonEmpty(c.Distance)
	c.HarvestDate = nonEmpty(c.HarvestDate)
	c.Story = nonEmpty(c.Story)
	c.Certifications = normalizeJSONList(c.Certifications)
	if c.Empty() {
		return nil
	}
	return &c
}

func cleanNutrition(n *models.NutritionalInfo) *models.NutritionalInfo {
	if n == nil {
		return nil
	}
	c := *n
	c.Portion = nonEmpty(c.Portion)
	c.Carbs = nonEmpty(c.Carbs)
	c.Fiber = nonEmpty(c.Fiber)
	c.Protein = nonEmpty(c.Protein)
	c.Vitamins = normalizeJSONList(c.Vitamins)
	if c.Empty() {
		return nil
	}
	return &c
}

func mapProductErr(err error) error {
	if errors.Is(err, repositories.ErrForeignKey) {
		return NewValidationError("Invalid category or producer")
	}
	return err
}
