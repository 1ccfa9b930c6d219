package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

type UserHandler struct {
	service services.CustomerService
	log     *zap.SugaredLogger
}

func NewUserHandler(service services.CustomerService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{service: service, log: nopIfNil(log)}
}

var profileErrText = errText{notFound: "User not found"}

// @Summary      Вход по номеру
// @Description  Находит покупателя по номеру или создаёт нового (isFirstTime=true)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      phoneRequest  true  "Телефон"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /users/authenticate [post]
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.service.Authenticate(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, h.log, err, profileErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// @Summary      Профиль покупателя
// @Tags         Users
// @Produce      json
// @Param        phoneNumber  path      string  true  "Телефон (допускается префикс whatsapp:)"
// @Success      200          {object}  map[string]interface{}
// @Failure      404          {object}  map[string]string
// @Router       /users/{phoneNumber}/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), c.Param("phoneNumber"))
	if err != nil {
		respondError(c, h.log, err, profileErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// @Summary      Статус онбординга
// @Tags         Users
// @Produce      json
// @Param        phoneNumber  path      string  true  "Телефон"
// @Success      200          {object}  models.UserStatus
// @Router       /users/{phoneNumber}/status [get]
func (h *UserHandler) Status(c *gin.Context) {
	st, err := h.service.Status(c.Request.Context(), c.Param("phoneNumber"))
	if err != nil {
		respondError(c, h.log, err, profileErrText)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Настройка корзины
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        phoneNumber  path      string                true  "Телефон"
// @Param        body         body      models.BasketRequest  true  "Параметры корзины"
// @Success      200          {object}  map[string]interface{}
// @Failure      404          {object}  map[string]string
// @Router       /users/{phoneNumber}/basket [put]
func (h *UserHandler) UpdateBasket(c *gin.Context) {
	var req models.BasketRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.service.UpdateBasket(c.Request.Context(), c.Param("phoneNumber"), req)
	if err != nil {
		respondError(c, h.log, err, profileErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}
