package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/logger"
	"feiraja/internal/messaging"
	"feiraja/internal/middleware"
	"feiraja/internal/models"
	"feiraja/internal/services"
)

// WhatsAppToolsHandler — ручная проверка доставки для администраторов.
type WhatsAppToolsHandler struct {
	notifier services.Notifier
	log      *zap.SugaredLogger
}

func NewWhatsAppToolsHandler(notifier services.Notifier, log *zap.SugaredLogger) *WhatsAppToolsHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WhatsAppToolsHandler{notifier: notifier, log: log}
}

type testMessageRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
	UserName    string `json:"userName"`
}

type testOrderRequest struct {
	PhoneNumber string               `json:"phoneNumber"`
	Order       *models.OrderSummary `json:"order"`
}

func (h *WhatsAppToolsHandler) audit(c *gin.Context, action, phone string) {
	adminID, _ := middleware.AdminID(c)
	h.log.Infow("[whatsapp-test]["+action+"]", "admin_id", adminID, "phone", logger.MaskPhone(phone))
}

// @Summary      Тестовый код
// @Tags         WhatsAppTest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testMessageRequest  true  "Телефон, код и имя"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /whatsapp-test/test-message [post]
func (h *WhatsAppToolsHandler) TestMessage(c *gin.Context) {
	var req testMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and code are required"})
		return
	}
	phone := services.NormalizePhone(req.PhoneNumber)
	h.audit(c, "test-message", phone)

	res, err := h.notifier.Send(c.Request.Context(), phone, services.VerificationMessage{
		Code:      req.Code,
		Name:      req.UserName,
		KnownUser: req.UserName != "",
	})
	if err != nil {
		respondError(c, h.log, err, errText{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Test message sent successfully",
		"phoneNumber":  phone,
		"code":         req.Code,
		"whatsappLink": res.WhatsAppLink,
		"result":       res,
	})
}

// @Summary      Тестовое приветствие
// @Tags         WhatsAppTest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testMessageRequest  true  "Телефон и имя"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp-test/test-welcome [post]
func (h *WhatsAppToolsHandler) TestWelcome(c *gin.Context) {
	var req testMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.UserName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and user name are required"})
		return
	}
	phone := services.NormalizePhone(req.PhoneNumber)
	h.audit(c, "test-welcome", phone)

	res, err := h.notifier.Send(c.Request.Context(), phone, services.WelcomeMessage{Name: req.UserName})
	if err != nil {
		respondError(c, h.log, err, errText{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Welcome message sent successfully",
		"phoneNumber": phone,
		"userName":    req.UserName,
		"result":      res,
	})
}

// @Summary      Тестовое подтверждение заказа
// @Tags         WhatsAppTest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testOrderRequest  true  "Телефон и заказ"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp-test/test-order [post]
func (h *WhatsAppToolsHandler) TestOrder(c *gin.Context) {
	var req testOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" || req.Order == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and order are required"})
		return
	}
	phone := services.NormalizePhone(req.PhoneNumber)
	h.audit(c, "test-order", phone)

	res, err := h.notifier.Send(c.Request.Context(), phone, services.OrderConfirmationMessage{Order: *req.Order})
	if err != nil {
		respondError(c, h.log, err, errText{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Order confirmation sent successfully",
		"phoneNumber": phone,
		"result":      res,
	})
}

// @Summary      Ссылка wa.me
// @Description  Строит ссылку без отправки сообщения
// @Tags         WhatsAppTest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testMessageRequest  true  "Телефон и необязательный код"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /whatsapp-test/generate-link [post]
func (h *WhatsAppToolsHandler) GenerateLink(c *gin.Context) {
	var req testMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgPhoneRequired})
		return
	}
	phone := services.NormalizePhone(req.PhoneNumber)

	text := "Olá! Testando WhatsApp da Feirajá"
	if req.Code != "" {
		text = "Código: " + req.Code
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"phoneNumber":  phone,
		"message":      text,
		"whatsappLink": messaging.WhatsAppLink(phone, text),
		"instructions": "Click the WhatsApp link to open a chat with the phone number",
	})
}
