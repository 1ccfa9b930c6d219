package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate — нарушение уникального ключа (Postgres 23505).
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey — ссылка на несуществующую строку или удаление используемой (23503).
	ErrForeignKey = errors.New("foreign key violation")
)

func isUniqueViolation(err error) bool {
	return pqCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == "23503"
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...any) error
}
