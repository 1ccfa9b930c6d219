// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

// Store держит все таблицы в памяти под одним мьютексом.
type Store struct {
	mu sync.Mutex

	verifications []*models.WhatsAppVerification
	customers     map[string]*models.Customer
	addresses     []*models.Address
	boxPrices     []*models.BoxPrice
	admins        []*models.Admin
	categories    []*models.Category
	producers     []*models.Producer
	products      []*models.Product

	seq int
}

func New() *Store {
	return &Store{customers: map[string]*models.Customer{}}
}

func (s *Store) next() int {
	s.seq++
	return s.seq
}

func (s *Store) Verifications() repositories.WhatsAppVerificationRepository {
	return &verificationRepo{s}
}
func (s *Store) Customers() repositories.CustomerRepository { return &customerRepo{s} }
func (s *Store) Addresses() repositories.AddressRepository { return &addressRepo{s} }
func (s *Store) BoxPrices() repositories.BoxPriceRepository { return &boxPriceRepo{s} }
func (s *Store) Admins() repositories.AdminRepository { return &adminRepo{s} }
func (s *Store) Categories() repositories.CategoryRepository { return &categoryRepo{s} }
func (s *Store) Producers() repositories.ProducerRepository { return &producerRepo{s} }
func (s *Store) Products() repositories.ProductRepository { return &productRepo{s} }

// VerificationRecords returns copies of the records stored for phone, oldest first.
func (s *Store) VerificationRecords(phone string) []models.WhatsAppVerification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WhatsAppVerification
	for _, v := range s.verifications {
		if v.PhoneNumber == phone {
			out = append(out, *v)
		}
	}
	return out
}

// ---- verifications ----

type verificationRepo struct{ s *Store }

func (r *verificationRepo) Create(_ context.Context, v *models.WhatsAppVerification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = int64(r.s.next())
	v.Verified = false
	v.Attempts = 0
	cp := *v
	r.s.verifications = append(r.s.verifications, &cp)
	return nil
}

func (r *verificationRepo) CountSince(_ context.Context, phone string, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, v := range r.s.verifications {
		if v.PhoneNumber == phone && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *verificationRepo) DeleteExpired(_ context.Context, phone string, now, createdBefore time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	kept := r.s.verifications[:0]
	for _, v := range r.s.verifications {
		if v.PhoneNumber == phone && !v.ExpiresAt.After(now) && v.CreatedAt.Before(createdBefore) {
			n++
			continue
		}
		kept = append(kept, v)
	}
	r.s.verifications = kept
	return n, nil
}

func (r *verificationRepo) Consume(_ context.Context, phone, code string, now time.Time) (*models.WhatsAppVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var match *models.WhatsAppVerification
	for _, v := range r.s.verifications {
		if v.PhoneNumber == phone && v.Code == code && !v.Verified && v.ExpiresAt.After(now) {
			if match == nil || v.CreatedAt.After(match.CreatedAt) {
				match = v
			}
		}
	}
	if match == nil {
		return nil, nil
	}
	match.Verified = true
	cp := *match
	return &cp, nil
}

func (r *verificationRepo) IncrementAttempts(_ context.Context, phone, code string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.verifications {
		if v.PhoneNumber == phone && v.Code == code {
			v.Attempts++
			n++
		}
	}
	return n, nil
}

func (r *verificationRepo) LatestVerifiedSince(_ context.Context, phone string, since time.Time) (*models.WhatsAppVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var match *models.WhatsAppVerification
	for _, v := range r.s.verifications {
		if v.PhoneNumber == phone && v.Verified && !v.CreatedAt.Before(since) {
			if match == nil || v.CreatedAt.After(match.CreatedAt) {
				match = v
			}
		}
	}
	if match == nil {
		return nil, nil
	}
	cp := *match
	return &cp, nil
}

func (r *verificationRepo) PurgeCreatedBefore(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	kept := r.s.verifications[:0]
	for _, v := range r.s.verifications {
		if v.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, v)
	}
	r.s.verifications = kept
	return n, nil
}

// ---- customers ----

type customerRepo struct{ s *Store }

func (r *customerRepo) withBoxPrice(c *models.Customer) *models.Customer {
	cp := *c
	cp.BoxPrice = nil
	if c.SelectedBoxSize != nil {
		for _, bp := range r.s.boxPrices {
			if bp.ProfileType == *c.SelectedBoxSize {
				b := *bp
				cp.BoxPrice = &b
				break
			}
		}
	}
	return &cp
}

func (r *customerRepo) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[phone]
	if !ok {
		return nil, nil
	}
	return r.withBoxPrice(c), nil
}

func (r *customerRepo) Create(_ context.Context, c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.PhoneNumber]; ok {
		return repositories.ErrDuplicate
	}
	c.ID = r.s.next()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.customers[c.PhoneNumber] = &cp
	return nil
}

func (r *customerRepo) EnsureByPhone(_ context.Context, phone string) (*models.Customer, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.customers[phone]; ok {
		return r.withBoxPrice(c), false, nil
	}
	c := &models.Customer{ID: r.s.next(), PhoneNumber: phone, IsFirstTime: true, CreatedAt: time.Now()}
	c.UpdatedAt = c.CreatedAt
	r.s.customers[phone] = c
	return r.withBoxPrice(c), true, nil
}

func (r *customerRepo) UpdateBasket(_ context.Context, phone string, upd repositories.BasketUpdate) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[phone]
	if !ok {
		return nil, nil
	}
	c.SelectedBoxSize = upd.SelectedBoxSize
	c.DeliveryDay = upd.DeliveryDay
	c.HouseholdSize = upd.HouseholdSize
	c.Preferences = upd.Preferences
	c.IsFirstTime = upd.IsFirstTime
	c.UpdatedAt = time.Now()
	return r.withBoxPrice(c), nil
}

// ---- addresses ----

type addressRepo struct{ s *Store }

func (r *addressRepo) sorted(filter func(*models.Address) bool) []*models.Address {
	out := make([]*models.Address, 0)
	for _, a := range r.s.addresses {
		if filter(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *addressRepo) ListByUser(_ context.Context, userID int) ([]*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(a *models.Address) bool { return a.UserID == userID }), nil
}

func (r *addressRepo) ListAll(_ context.Context) ([]*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(*models.Address) bool { return true }), nil
}

func (r *addressRepo) GetByID(_ context.Context, id int) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.addresses {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *addressRepo) Create(_ context.Context, in models.AddressInput) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if in.IsDefault {
		for _, a := range r.s.addresses {
			if a.UserID == in.UserID {
				a.IsDefault = false
			}
		}
	}
	a := &models.Address{
		ID:           r.s.next(),
		UserID:       in.UserID,
		Name:         in.Name,
		Street:       in.Street,
		Neighborhood: in.Neighborhood,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
		Complement:   in.Complement,
		Reference:    in.Reference,
		IsDefault:    in.IsDefault,
		CreatedAt:    time.Now(),
	}
	r.s.addresses = append(r.s.addresses, a)
	cp := *a
	return &cp, nil
}

// ---- box prices ----

type boxPriceRepo struct{ s *Store }

func (r *boxPriceRepo) List(_ context.Context) ([]*models.BoxPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.BoxPrice, 0, len(r.s.boxPrices))
	for _, bp := range r.s.boxPrices {
		cp := *bp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileType < out[j].ProfileType })
	return out, nil
}

func (r *boxPriceRepo) GetByID(_ context.Context, id int) (*models.BoxPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, bp := range r.s.boxPrices {
		if bp.ID == id {
			cp := *bp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *boxPriceRepo) Create(_ context.Context, bp *models.BoxPrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.boxPrices {
		if existing.ProfileType == bp.ProfileType {
			return repositories.ErrDuplicate
		}
	}
	bp.ID = r.s.next()
	bp.CreatedAt = time.Now()
	bp.UpdatedAt = bp.CreatedAt
	cp := *bp
	r.s.boxPrices = append(r.s.boxPrices, &cp)
	return nil
}

func (r *boxPriceRepo) Update(_ context.Context, id int, patch repositories.BoxPricePatch) (*models.BoxPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, bp := range r.s.boxPrices {
		if bp.ID != id {
			continue
		}
		if patch.Name != nil {
			bp.Name = *patch.Name
		}
		if patch.BasePrice != nil {
			bp.BasePrice = *patch.BasePrice
		}
		if patch.ItemCount != nil {
			bp.ItemCount = *patch.ItemCount
		}
		bp.UpdatedAt = time.Now()
		cp := *bp
		return &cp, nil
	}
	return nil, nil
}

func (r *boxPriceRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, bp := range r.s.boxPrices {
		if bp.ID == id {
			r.s.boxPrices = append(r.s.boxPrices[:i], r.s.boxPrices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ---- admins ----

type adminRepo struct{ s *Store }

func (r *adminRepo) find(match func(*models.Admin) bool) *models.Admin {
	for _, a := range r.s.admins {
		if match(a) {
			cp := *a
			return &cp
		}
	}
	return nil
}

// taken: username или email уже заняты кем-то кроме exceptID.
func (r *adminRepo) taken(username, email string, exceptID int) bool {
	return r.find(func(a *models.Admin) bool {
		return a.ID != exceptID && ((username != "" && a.Username == username) || (email != "" && a.Email == email))
	}) != nil
}

func (r *adminRepo) GetByLogin(_ context.Context, login string) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(a *models.Admin) bool { return a.Username == login || a.Email == login }), nil
}

func (r *adminRepo) GetByID(_ context.Context, id int) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(a *models.Admin) bool { return a.ID == id }), nil
}

func (r *adminRepo) List(_ context.Context) ([]*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *adminRepo) Create(_ context.Context, a *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(a.Username, a.Email, 0) {
		return repositories.ErrDuplicate
	}
	a.ID = r.s.next()
	a.CreatedAt = time.Now()
	cp := *a
	r.s.admins = append(r.s.admins, &cp)
	return nil
}

func (r *adminRepo) Update(_ context.Context, id int, patch repositories.AdminPatch) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.ID != id {
			continue
		}
		var username, email string
		if patch.Username != nil {
			username = *patch.Username
		}
		if patch.Email != nil {
			email = *patch.Email
		}
		if r.taken(username, email, id) {
			return nil, repositories.ErrDuplicate
		}
		if patch.Username != nil {
			a.Username = *patch.Username
		}
		if patch.Email != nil {
			a.Email = *patch.Email
		}
		if patch.PasswordHash != nil {
			a.PasswordHash = *patch.PasswordHash
		}
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *adminRepo) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, a := range r.s.admins {
		if a.ID == id {
			r.s.admins = append(r.s.admins[:i], r.s.admins[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *adminRepo) Upsert(_ context.Context, a *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.Username == a.Username {
			existing.Email = a.Email
			existing.PasswordHash = a.PasswordHash
			a.ID = existing.ID
			a.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	a.ID = r.s.next()
	a.CreatedAt = time.Now()
	cp := *a
	r.s.admins = append(r.s.admins, &cp)
	return nil
}
