package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

type AddressHandler struct {
	service services.AddressService
	log     *zap.SugaredLogger
}

func NewAddressHandler(service services.AddressService, log *zap.SugaredLogger) *AddressHandler {
	return &AddressHandler{service: service, log: nopIfNil(log)}
}

var addressErrText = errText{notFound: "Address not found"}

// @Summary      Список адресов
// @Description  Сначала адрес по умолчанию, затем новые
// @Tags         Addresses
// @Produce      json
// @Param        userId  query     int  false  "ID покупателя"
// @Success      200     {array}   models.Address
// @Router       /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	var userID *int
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
			return
		}
		userID = &id
	}
	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, addressErrText)
		return
	}
	if list == nil {
		list = []*models.Address{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Адрес по ID
// @Tags         Addresses
// @Produce      json
// @Param        id   path      int  true  "ID адреса"
// @Success      200  {object}  models.Address
// @Failure      404  {object}  map[string]string
// @Router       /addresses/{id} [get]
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, addressErrText)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Новый адрес
// @Description  isDefault=true снимает флаг с остальных адресов покупателя
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.AddressInput  true  "Адрес"
// @Success      201   {object}  models.Address
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var in models.AddressInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, addressErrText)
		return
	}
	c.JSON(http.StatusCreated, a)
}
