package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/services"
)

type ProducerHandler struct {
	service services.ProducerService
	log     *zap.SugaredLogger
}

func NewProducerHandler(service services.ProducerService, log *zap.SugaredLogger) *ProducerHandler {
	return &ProducerHandler{service: service, log: nopIfNil(log)}
}

var producerErrText = errText{
	notFound: "Producer not found",
	conflict: "Email already exists",
}

// @Summary      Производители
// @Tags         Catalog
// @Produce      json
// @Param        search    query     string  false  "Имя или местность"
// @Param        isActive  query     bool    false  "Фильтр по активности"
// @Param        page      query     int     false  "Страница"
// @Param        limit     query     int     false  "Размер страницы"
// @Success      200       {object}  models.ProducerPage
// @Router       /producers [get]
func (h *ProducerHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), services.ProducerQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		IsActive: queryBool(c, "isActive"),
		Page:     queryPage(c),
	})
	if err != nil {
		respondError(c, h.log, err, producerErrText)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Производитель с товарами
// @Tags         Catalog
// @Produce      json
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  models.ProducerDetail
// @Failure      404  {object}  map[string]string
// @Router       /producers/{id} [get]
func (h *ProducerHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, producerErrText)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Новый производитель
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      services.ProducerInput  true  "Производитель"
// @Success      201   {object}  models.Producer
// @Failure      400   {object}  map[string]string
// @Router       /admin/producers [post]
func (h *ProducerHandler) Create(c *gin.Context) {
	var in services.ProducerInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, producerErrText)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Изменение производителя
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "ID"
// @Param        body  body      services.ProducerUpdate  true  "Изменяемые поля"
// @Success      200   {object}  models.Producer
// @Failure      404   {object}  map[string]string
// @Router       /admin/producers/{id} [put]
func (h *ProducerHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ProducerUpdate
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err, producerErrText)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Удаление производителя
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/producers/{id} [delete]
func (h *ProducerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, producerErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producer deleted successfully"})
}
