package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

type CategoryHandler struct {
	service services.CategoryService
	log     *zap.SugaredLogger
}

func NewCategoryHandler(service services.CategoryService, log *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{service: service, log: nopIfNil(log)}
}

var categoryErrText = errText{
	notFound: "Category not found",
	conflict: "Category name already exists",
}

// @Summary      Категории витрины
// @Description  Только категории, в которых есть товары
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}   models.Category
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	h.list(c, false)
}

// @Summary      Все категории
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Category
// @Router       /admin/categories [get]
func (h *CategoryHandler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *CategoryHandler) list(c *gin.Context, includeEmpty bool) {
	list, err := h.service.List(c.Request.Context(), includeEmpty)
	if err != nil {
		respondError(c, h.log, err, categoryErrText)
		return
	}
	if list == nil {
		list = []*models.Category{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Новая категория
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      services.CategoryInput  true  "Категория"
// @Success      201   {object}  models.Category
// @Failure      400   {object}  map[string]string
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, categoryErrText)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary      Изменение категории
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "ID"
// @Param        body  body      services.CategoryInput  true  "Поля"
// @Success      200   {object}  models.Category
// @Failure      404   {object}  map[string]string
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err, categoryErrText)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary      Удаление категории
// @Description  Категорию с товарами удалить нельзя
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, categoryErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
