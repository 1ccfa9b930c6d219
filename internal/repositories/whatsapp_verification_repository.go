package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"feiraja/internal/models"
)

type WhatsAppVerificationRepository interface {
	Create(ctx context.Context, v *models.WhatsAppVerification) error
	CountSince(ctx context.Context, phone string, since time.Time) (int, error)
	DeleteExpired(ctx context.Context, phone string, now, createdBefore time.Time) (int64, error)
	Consume(ctx context.Context, phone, code string, now time.Time) (*models.WhatsAppVerification, error)
	IncrementAttempts(ctx context.Context, phone, code string) (int64, error)
	LatestVerifiedSince(ctx context.Context, phone string, since time.Time) (*models.WhatsAppVerification, error)
	PurgeCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type whatsAppVerificationRepository struct {
	db *sql.DB
}

func NewWhatsAppVerificationRepository(db *sql.DB) WhatsAppVerificationRepository {
	return &whatsAppVerificationRepository{db: db}
}

const verificationColumns = `id, phone_number, code, created_at, expires_at, verified, attempts`

func scanVerification(row rowScanner) (*models.WhatsAppVerification, error) {
	var v models.WhatsAppVerification
	if err := row.Scan(&v.ID, &v.PhoneNumber, &v.Code, &v.CreatedAt, &v.ExpiresAt, &v.Verified, &v.Attempts); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create — каждая выдача кода это новая строка (verified=false, attempts=0).
func (r *whatsAppVerificationRepository) Create(ctx context.Context, v *models.WhatsAppVerification) error {
	const q = `
		INSERT INTO whatsapp_verifications (phone_number, code, created_at, expires_at, verified, attempts)
		VALUES ($1, $2, $3, $4, FALSE, 0)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, q, v.PhoneNumber, v.Code, v.CreatedAt, v.ExpiresAt).Scan(&v.ID); err != nil {
		return fmt.Errorf("whatsapp_verification create: %w", err)
	}
	v.Verified = false
	v.Attempts = 0
	return nil
}

// CountSince — сколько кодов выдано с момента since, независимо от статуса.
func (r *whatsAppVerificationRepository) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM whatsapp_verifications
		WHERE phone_number = $1 AND created_at >= $2
	`
	var c int
	if err := r.db.QueryRowContext(ctx, q, phone, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("whatsapp_verification count since: %w", err)
	}
	return c, nil
}

// DeleteExpired удаляет просроченные коды, но только вышедшие из окна лимита:
// строки моложе createdBefore ещё участвуют в CountSince.
func (r *whatsAppVerificationRepository) DeleteExpired(ctx context.Context, phone string, now, createdBefore time.Time) (int64, error) {
	const q = `
		DELETE FROM whatsapp_verifications
		WHERE phone_number = $1 AND expires_at <= $2 AND created_at < $3
	`
	res, err := r.db.ExecContext(ctx, q, phone, now, createdBefore)
	if err != nil {
		return 0, fmt.Errorf("whatsapp_verification delete expired: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Consume — атомарно помечает подходящий код использованным.
// Условие verified = FALSE в самом UPDATE гарантирует не более одного успешного погашения.
func (r *whatsAppVerificationRepository) Consume(ctx context.Context, phone, code string, now time.Time) (*models.WhatsAppVerification, error) {
	const q = `
		UPDATE whatsapp_verifications
		SET verified = TRUE
		WHERE id = (
			SELECT id FROM whatsapp_verifications
			WHERE phone_number = $1 AND code = $2 AND verified = FALSE AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		) AND verified = FALSE
		RETURNING ` + verificationColumns
	v, err := scanVerification(r.db.QueryRowContext(ctx, q, phone, code, now))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("whatsapp_verification consume: %w", err)
	}
	return v, nil
}

// IncrementAttempts — +1 всем строкам с этой парой (телефон, код), в любом статусе.
func (r *whatsAppVerificationRepository) IncrementAttempts(ctx context.Context, phone, code string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE whatsapp_verifications SET attempts = attempts + 1 WHERE phone_number = $1 AND code = $2`,
		phone, code)
	if err != nil {
		return 0, fmt.Errorf("whatsapp_verification increment attempts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *whatsAppVerificationRepository) LatestVerifiedSince(ctx context.Context, phone string, since time.Time) (*models.WhatsAppVerification, error) {
	const q = `
		SELECT ` + verificationColumns + `
		FROM whatsapp_verifications
		WHERE phone_number = $1 AND verified = TRUE AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	v, err := scanVerification(r.db.QueryRowContext(ctx, q, phone, since))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("whatsapp_verification latest verified: %w", err)
	}
	return v, nil
}

func (r *whatsAppVerificationRepository) PurgeCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM whatsapp_verifications WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("whatsapp_verification purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
