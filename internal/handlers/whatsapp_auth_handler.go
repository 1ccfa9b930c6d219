package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/logger"
	"feiraja/internal/middleware"
	"feiraja/internal/models"
	"feiraja/internal/services"
)

type WhatsAppAuthHandler struct {
	service *services.WhatsAppAuthService
	log     *zap.SugaredLogger
}

func NewWhatsAppAuthHandler(service *services.WhatsAppAuthService, log *zap.SugaredLogger) *WhatsAppAuthHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WhatsAppAuthHandler{service: service, log: log}
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber" example:"+5511987654321"`
}

type verifyCodeRequest struct {
	PhoneNumber string            `json:"phoneNumber" example:"+5511987654321"`
	Code        models.FlexString `json:"code" swaggertype:"string" example:"123456"`
}

var userErrText = errText{notFound: msgUserNotFound, conflict: msgUserExists}

// @Summary      Проверка номера
// @Description  Сообщает, зарегистрирован ли номер и настроена ли корзина
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        body  body      phoneRequest  true  "Телефон"
// @Success      200   {object}  models.UserCheck
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp/check-user [post]
func (h *WhatsAppAuthHandler) CheckUser(c *gin.Context) {
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.CheckUser(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, h.log, err, userErrText)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Отправка кода
// @Description  Выдаёт 6-значный код и отправляет его в WhatsApp (не более 3 в час)
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        body  body      phoneRequest  true  "Телефон"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]string
// @Router       /whatsapp/send-code [post]
func (h *WhatsAppAuthHandler) SendCode(c *gin.Context) {
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.service.SendCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, h.log, err, userErrText)
		return
	}

	resp := gin.H{
		"success":   true,
		"message":   "Código enviado com sucesso",
		"expiresIn": int(d.ExpiresIn.Seconds()),
	}
	if d.Delivery != nil {
		if d.Delivery.WhatsAppLink != "" {
			resp["whatsappLink"] = d.Delivery.WhatsAppLink
		}
		if si := d.Delivery.SandboxInstructions; si != nil && si.Required {
			resp["sandboxInstructions"] = si
		}
	}
	h.log.Infow("[whatsapp][send-code] responded",
		"request_id", middleware.GetRequestID(c), "phone", logger.MaskPhone(d.PhoneNumber))
	c.JSON(http.StatusOK, resp)
}

// @Summary      Проверка кода
// @Description  Погашает код; для известного номера возвращает профиль, иначе требует регистрацию
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Телефон и код"
// @Success      200   {object}  models.VerifyResult
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp/verify-code [post]
func (h *WhatsAppAuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.VerifyCode(c.Request.Context(), req.PhoneNumber, string(req.Code))
	if err != nil {
		respondError(c, h.log, err, userErrText)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Регистрация
// @Description  Создаёт покупателя после недавней проверки кода
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные покупателя"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp/register [post]
func (h *WhatsAppAuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, userErrText)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Usuário cadastrado com sucesso!",
		"user":    profile,
	})
}

// @Summary      Быстрый вход
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        body  body      phoneRequest  true  "Телефон"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /whatsapp/quick-login [post]
func (h *WhatsAppAuthHandler) QuickLogin(c *gin.Context) {
	var req phoneRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.service.QuickLogin(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, h.log, err, userErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}
