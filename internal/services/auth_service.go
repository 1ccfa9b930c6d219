package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"feiraja/internal/models"
	"feiraja/internal/repositories"
)

// AdminClaims — полезная нагрузка токена администратора.
type AdminClaims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins repositories.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(admins repositories.AdminRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{admins: admins, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login принимает username или email. Неизвестный логин и неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *models.Admin, error) {
	admin, err := s.admins.GetByLogin(ctx, login)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.issue(admin)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

func (s *AuthService) issue(admin *models.Admin) (string, error) {
	now := s.now()
	claims := AdminClaims{
		ID:       admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись (только HMAC) и срок действия.
func (s *AuthService) ParseToken(tokenStr string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// HashPassword используется утилитой создания администратора.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(b), nil
}

// SeedAdmin создаёт или обновляет администратора.
func (s *AuthService) SeedAdmin(ctx context.Context, username, email, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, NewValidationError("username and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &models.Admin{Username: username, Email: email, PasswordHash: hash}
	if err := s.admins.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

const minAdminPasswordLen = 6

type AdminInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUpdate: отсутствующие и пустые поля не меняются.
type AdminUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	return s.admins.List(ctx)
}

func (s *AuthService) CreateAdmin(ctx context.Context, in AdminInput) (*models.Admin, error) {
	username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, NewValidationError("Username, email, and password are required")
	}
	if len(in.Password) < minAdminPasswordLen {
		return nil, NewValidationError("Password must be at least 6 characters")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := &models.Admin{Username: username, Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return a, nil
}

func (s *AuthService) UpdateAdmin(ctx context.Context, id int, in AdminUpdate) (*models.Admin, error) {
	patch := repositories.AdminPatch{Username: nonEmpty(in.Username), Email: nonEmpty(in.Email)}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < minAdminPasswordLen {
			return nil, NewValidationError("Password must be at least 6 characters")
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	a, err := s.admins.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// DeleteAdmin: удалить собственную учётку нельзя, так что хотя бы один администратор остаётся.
func (s *AuthService) DeleteAdmin(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return NewValidationError("Cannot delete your own account")
	}
	ok, err := s.admins.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
