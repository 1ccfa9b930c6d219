package repotest

import (
	"context"
	"sort"
	"strings"
	"time"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

// вызывать под r.s.mu
func (s *Store) categoryProducts(id int) int {
	n := 0
	for _, p := range s.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n
}

func (s *Store) producerProducts(id int) int {
	n := 0
	for _, p := range s.products {
		if p.Origin != nil && p.Origin.ProducerID != nil && *p.Origin.ProducerID == id {
			n++
		}
	}
	return n
}

func (s *Store) categoryByID(id int) *models.Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Store) producerByID(id int) *models.Producer {
	for _, p := range s.producers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return make([]T, 0)
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- categories ----

type categoryRepo struct{ s *Store }

func (r *categoryRepo) copyOf(c *models.Category) *models.Category {
	cp := *c
	cp.Count.Products = r.s.categoryProducts(c.ID)
	return &cp
}

func (r *categoryRepo) List(_ context.Context, withProductsOnly bool) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := r.copyOf(c)
		if withProductsOnly && cp.Count.Products == 0 {
			continue
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c := r.s.categoryByID(id); c != nil {
		return r.copyOf(c), nil
	}
	return nil, nil
}

func (r *categoryRepo) nameTaken(name string, exceptID int) bool {
	for _, c := range r.s.categories {
		if c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(c.Name, 0) {
		return repositories.ErrDuplicate
	}
	c.ID = r.s.next()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.categories = append(r.s.categories, &cp)
	return nil
}

func (r *categoryRepo) Update(_ context.Context, id int, patch repositories.CategoryPatch) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.categoryByID(id)
	if c == nil {
		return nil, nil
	}
	if patch.Name != nil {
		if r.nameTaken(*patch.Name, id) {
			return nil, repositories.ErrDuplicate
		}
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	c.UpdatedAt = time.Now()
	return r.copyOf(c), nil
}

func (r *categoryRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, c := range r.s.categories {
		if c.ID != id {
			continue
		}
		if r.s.categoryProducts(id) > 0 {
			return false, repositories.ErrForeignKey
		}
		r.s.categories = append(r.s.categories[:i], r.s.categories[i+1:]...)
		return true, nil
	}
	return false, nil
}

// ---- producers ----

type producerRepo struct{ s *Store }

func (r *producerRepo) copyOf(p *models.Producer) *models.Producer {
	cp := *p
	cp.Count.Products = r.s.producerProducts(p.ID)
	return &cp
}

func (r *producerRepo) emailTaken(email *string, exceptID int) bool {
	if email == nil {
		return false
	}
	for _, p := range r.s.producers {
		if p.ID != exceptID && p.Email != nil && *p.Email == *email {
			return true
		}
	}
	return false
}

func (r *producerRepo) List(_ context.Context, f repositories.ProducerFilter) ([]*models.Producer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*models.Producer, 0)
	for _, p := range r.s.producers {
		if f.Search != "" {
			loc := ""
			if p.Location != nil {
				loc = *p.Location
			}
			if !containsFold(p.Name, f.Search) && !containsFold(loc, f.Search) {
				continue
			}
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		all = append(all, r.copyOf(p))
	}
	// новые первыми; id растёт вместе с временем создания
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *producerRepo) GetByID(_ context.Context, id int) (*models.Producer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p := r.s.producerByID(id); p != nil {
		return r.copyOf(p), nil
	}
	return nil, nil
}

func (r *producerRepo) ListProducts(_ context.Context, producerID int) ([]models.ProductSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.ProductSummary, 0)
	for _, p := range r.s.products {
		if p.Origin != nil && p.Origin.ProducerID != nil && *p.Origin.ProducerID == producerID {
			out = append(out, models.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *producerRepo) Create(_ context.Context, p *models.Producer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(p.Email, 0) {
		return repositories.ErrDuplicate
	}
	p.ID = r.s.next()
	p.IsActive = true
	if p.Certifications == nil {
		p.Certifications = []byte(`[]`)
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.producers = append(r.s.producers, &cp)
	return nil
}

func (r *producerRepo) Update(_ context.Context, id int, patch repositories.ProducerPatch) (*models.Producer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.producerByID(id)
	if p == nil {
		return nil, nil
	}
	if patch.Email.Set && r.emailTaken(patch.Email.Value, id) {
		return nil, repositories.ErrDuplicate
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	for _, f := range []struct {
		dst *(*string)
		v   repositories.NullableString
	}{{&p.Email, patch.Email}, {&p.Phone, patch.Phone}, {&p.Location, patch.Location}, {&p.Story, patch.Story}} {
		if f.v.Set {
			*f.dst = f.v.Value
		}
	}
	if patch.Certifications != nil {
		p.Certifications = patch.Certifications
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.UpdatedAt = time.Now()
	return r.copyOf(p), nil
}

func (r *producerRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.producers {
		if p.ID != id {
			continue
		}
		if r.s.producerProducts(id) > 0 {
			return false, repositories.ErrForeignKey
		}
		r.s.producers = append(r.s.producers[:i], r.s.producers[i+1:]...)
		return true, nil
	}
	return false, nil
}

// ---- products ----

type productRepo struct{ s *Store }

func (r *productRepo) copyOf(p *models.Product, withDetails bool) *models.Product {
	cp := *p
	if c := r.s.categoryByID(p.CategoryID); c != nil {
		cp.Category = c.Name
	}
	if withDetails {
		if p.Origin != nil {
			o := *p.Origin
			cp.Origin = &o
		}
		if p.NutritionalInfo != nil {
			n := *p.NutritionalInfo
			cp.NutritionalInfo = &n
		}
	} else {
		cp.Origin = nil
		cp.NutritionalInfo = nil
	}
	return &cp
}

func (r *productRepo) refsOK(categoryID int, origin *models.ProductOrigin) bool {
	if r.s.categoryByID(categoryID) == nil {
		return false
	}
	if origin != nil && origin.ProducerID != nil && r.s.producerByID(*origin.ProducerID) == nil {
		return false
	}
	return true
}

func (r *productRepo) List(_ context.Context, f repositories.ProductFilter) ([]*models.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*models.Product, 0)
	for _, p := range r.s.products {
		cp := r.copyOf(p, false)
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.CategoryID == nil && f.CategoryName != "" && !strings.EqualFold(cp.Category, f.CategoryName) {
			continue
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.Description, f.Search) {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *productRepo) GetByID(_ context.Context, id int) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id {
			return r.copyOf(p, true), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.refsOK(p.CategoryID, p.Origin) {
		return repositories.ErrForeignKey
	}
	p.ID = r.s.next()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := r.copyOf(p, true)
	r.s.products = append(r.s.products, cp)
	return nil
}

func (r *productRepo) Update(_ context.Context, id int, patch repositories.ProductPatch) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID != id {
			continue
		}
		categoryID := p.CategoryID
		if patch.CategoryID != nil {
			categoryID = *patch.CategoryID
		}
		if !r.refsOK(categoryID, patch.Origin) {
			return false, repositories.ErrForeignKey
		}
		p.CategoryID = categoryID
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.InStock != nil {
			p.InStock = *patch.InStock
		}
		if patch.Image != nil {
			p.Image = patch.Image
		}
		if patch.Origin != nil {
			p.Origin = mergeOrigin(p.Origin, patch.Origin)
		}
		if patch.NutritionalInfo != nil {
			p.NutritionalInfo = mergeNutrition(p.NutritionalInfo, patch.NutritionalInfo)
		}
		p.UpdatedAt = time.Now()
		return true, nil
	}
	return false, nil
}

func (r *productRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.products {
		if p.ID == id {
			r.s.products = append(r.s.products[:i], r.s.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func mergeOrigin(cur, upd *models.ProductOrigin) *models.ProductOrigin {
	if cur == nil {
		o := *upd
		return &o
	}
	o := *cur
	if upd.ProducerID != nil {
		o.ProducerID = upd.ProducerID
	}
	for _, f := range []struct{ dst, v *(*string) }{
		{&o.Producer, &upd.Producer}, {&o.Location, &upd.Location}, {&o.Distance, &upd.Distance},
		{&o.HarvestDate, &upd.HarvestDate}, {&o.Story, &upd.Story},
	} {
		if *f.v != nil {
			*f.dst = *f.v
		}
	}
	if upd.Certifications != nil {
		o.Certifications = upd.Certifications
	}
	return &o
}

func mergeNutrition(cur, upd *models.NutritionalInfo) *models.NutritionalInfo {
	if cur == nil {
		n := *upd
		return &n
	}
	n := *cur
	for _, f := range []struct{ dst, v *(*string) }{
		{&n.Portion, &upd.Portion}, {&n.Carbs, &upd.Carbs}, {&n.Fiber, &upd.Fiber}, {&n.Protein, &upd.Protein},
	} {
		if *f.v != nil {
			*f.dst = *f.v
		}
	}
	if upd.Calories != nil {
		n.Calories = upd.Calories
	}
	if upd.Vitamins != nil {
		n.Vitamins = upd.Vitamins
	}
	return &n
}
