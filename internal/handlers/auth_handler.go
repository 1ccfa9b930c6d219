package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.SugaredLogger
}

func NewAuthHandler(authService *services.AuthService, log *zap.SugaredLogger) *AuthHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuthHandler{authService: authService, log: log}
}

// @Summary      Вход администратора
// @Description  Принимает username или email, возвращает JWT на 24 часа
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Infow("[admin][login] bad request", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	login := strings.TrimSpace(req.Username)

	token, admin, err := h.authService.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.log.Infow("[admin][login] rejected", "login", login)
		}
		respondError(c, h.log, err, errText{})
		return
	}

	h.log.Infow("[admin][login] ok", "admin_id", admin.ID, "took", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}
