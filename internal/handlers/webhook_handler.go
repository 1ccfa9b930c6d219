package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/middleware"
	"feiraja/internal/services"
)

const signatureHeader = "X-Hub-Signature-256"

type WebhookHandler struct {
	service *services.WebhookService
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewWebhookHandler(service *services.WebhookService, log *zap.SugaredLogger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WebhookHandler{service: service, log: log, now: time.Now}
}

// @Summary      Подтверждение подписки Meta
// @Tags         Webhook
// @Produce      plain
// @Param        hub.mode          query     string  true  "subscribe"
// @Param        hub.verify_token  query     string  true  "Verify token"
// @Param        hub.challenge     query     string  true  "Challenge"
// @Success      200               {string}  string
// @Failure      403               {string}  string
// @Router       /webhook/whatsapp [get]
func (h *WebhookHandler) Verify(c *gin.Context) {
	if !h.service.VerifySubscription(c.Query("hub.mode"), c.Query("hub.verify_token")) {
		h.log.Warnw("[webhook][verify] failed", "request_id", middleware.GetRequestID(c))
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	h.log.Infow("[webhook][verify] ok")
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// @Summary      Входящие сообщения WhatsApp
// @Description  Создаёт покупателя для нового номера и отвечает автосообщением
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        X-Hub-Signature-256  header    string  false  "sha256=<hex>, если задан app secret"
// @Success      200                  {object}  map[string]interface{}
// @Failure      400                  {object}  map[string]string
// @Failure      401                  {object}  map[string]string
// @Router       /webhook/whatsapp [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	if h.service.SignatureRequired() && !h.service.ValidSignature(c.GetHeader(signatureHeader), body) {
		h.log.Warnw("[webhook][receive] bad signature", "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var payload services.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Warnw("[webhook][receive] bad payload", "request_id", middleware.GetRequestID(c), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	sum := h.service.Process(c.Request.Context(), payload)
	h.log.Infow("[webhook][receive] processed",
		"request_id", middleware.GetRequestID(c),
		"messages", sum.Messages, "replies", sum.Replies, "statuses", sum.Statuses)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "WhatsApp webhook processed"})
}

type userAccessEvent struct {
	IsFirstTime bool   `json:"isFirstTime"`
	Timestamp   string `json:"timestamp"`
	UserAgent   string `json:"userAgent"`
	VisitData   struct {
		VisitCount int `json:"visitCount"`
	} `json:"visitData"`
}

// @Summary      Событие захода на сайт
// @Description  Фронтенд сообщает о первом или повторном визите; событие только логируется
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /webhook/user-access [post]
func (h *WebhookHandler) UserAccess(c *gin.Context) {
	var ev userAccessEvent
	if !bindJSON(c, &ev) {
		return
	}
	ua := truncateRunes(ev.UserAgent, 100)
	visits := ev.VisitData.VisitCount
	if visits == 0 {
		visits = 1
	}
	h.log.Infow("[webhook][user-access]", "first_time", ev.IsFirstTime, "visit_count", visits, "user_agent", ua)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User access webhook processed successfully",
		"data": gin.H{
			"isFirstTime": ev.IsFirstTime,
			"timestamp":   ev.Timestamp,
			"processed":   h.now().UTC().Format(time.RFC3339),
		},
	})
}
