package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/messaging"
	"feiraja/internal/middleware"
	"feiraja/internal/services"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInternal      = "Internal server error"
	msgRateLimited   = "Muitas tentativas. Tente novamente em 1 hora."
	msgInvalidCode   = "Código inválido ou expirado"
	msgNotVerified   = "Verificação não encontrada. Verifique seu número novamente."
	msgInvalidCreds  = "Invalid credentials"
	msgUserNotFound  = "Usuário não encontrado"
	msgUserExists    = "Usuário já cadastrado"
	msgPhoneRequired = "Phone number is required"
	msgInvalidID     = "Invalid id"
)

// errText — тексты для NotFound/Conflict, зависят от ресурса.
type errText struct {
	notFound string
	conflict string
}

// respondError переводит доменные ошибки в HTTP-ответ {"error": ...}.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error, txt errText) {
	var (
		rl *services.RateLimitError
		de *messaging.DeliveryError
	)
	switch {
	case errors.As(err, &rl):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": msgRateLimited, "retryAfter": int(rl.RetryAfter.Seconds())})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCode})
	case errors.Is(err, services.ErrVerificationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNotVerified})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": orDefault(txt.conflict, "Conflict")})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": orDefault(txt.notFound, "Not found")})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCreds})
	case errors.As(err, &de):
		log.Warnw("[http] delivery failed", "request_id", middleware.GetRequestID(c), "provider", de.Provider, "kind", de.Kind, "err", de.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": de.Message})
	default:
		log.Errorw("[http] internal error", "request_id", middleware.GetRequestID(c), "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

func nopIfNil(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
