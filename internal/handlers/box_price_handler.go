package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

type BoxPriceHandler struct {
	service services.BoxPriceService
	log     *zap.SugaredLogger
}

func NewBoxPriceHandler(service services.BoxPriceService, log *zap.SugaredLogger) *BoxPriceHandler {
	return &BoxPriceHandler{service: service, log: nopIfNil(log)}
}

var boxPriceErrText = errText{
	notFound: "Box price not found",
	conflict: "Box price with this profile type already exists",
}

// @Summary      Тарифы корзин
// @Tags         BoxPrices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.BoxPrice
// @Router       /admin/box-prices [get]
func (h *BoxPriceHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, boxPriceErrText)
		return
	}
	if list == nil {
		list = []*models.BoxPrice{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Тариф по ID
// @Tags         BoxPrices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  models.BoxPrice
// @Failure      404  {object}  map[string]string
// @Router       /admin/box-prices/{id} [get]
func (h *BoxPriceHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	bp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, boxPriceErrText)
		return
	}
	c.JSON(http.StatusOK, bp)
}

// @Summary      Новый тариф
// @Tags         BoxPrices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      services.BoxPriceInput  true  "Тариф"
// @Success      201   {object}  models.BoxPrice
// @Failure      400   {object}  map[string]string
// @Router       /admin/box-prices [post]
func (h *BoxPriceHandler) Create(c *gin.Context) {
	var in services.BoxPriceInput
	if !bindJSON(c, &in) {
		return
	}
	bp, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, boxPriceErrText)
		return
	}
	c.JSON(http.StatusCreated, bp)
}

// @Summary      Изменение тарифа
// @Tags         BoxPrices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "ID"
// @Param        body  body      services.BoxPriceUpdate  true  "Изменяемые поля"
// @Success      200   {object}  models.BoxPrice
// @Failure      404   {object}  map[string]string
// @Router       /admin/box-prices/{id} [put]
func (h *BoxPriceHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.BoxPriceUpdate
	if !bindJSON(c, &in) {
		return
	}
	bp, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err, boxPriceErrText)
		return
	}
	c.JSON(http.StatusOK, bp)
}

// @Summary      Удаление тарифа
// @Tags         BoxPrices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/box-prices/{id} [delete]
func (h *BoxPriceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, boxPriceErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Box price deleted successfully"})
}
