package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feiraja/internal/models"
	"feiraja/internal/services"
)

const msgImageTooLarge = "Image must be 5MB or smaller"

type ProductHandler struct {
	service services.ProductService
	log     *zap.SugaredLogger
}

func NewProductHandler(service services.ProductService, log *zap.SugaredLogger) *ProductHandler {
	return &ProductHandler{service: service, log: nopIfNil(log)}
}

var productErrText = errText{notFound: "Product not found"}

// productBody — JSON-вариант тела; форма с файлом разбирается в productForm.
type productBody struct {
	Name            string                  `json:"name"`
	Description     *string                 `json:"description"`
	Price           models.FlexFloat        `json:"price" swaggertype:"number"`
	CategoryID      models.FlexInt          `json:"categoryId" swaggertype:"integer"`
	InStock         *models.FlexBool        `json:"inStock" swaggertype:"boolean"`
	Image           *string                 `json:"image"`
	Origin          *models.ProductOrigin   `json:"origin"`
	NutritionalInfo *models.NutritionalInfo `json:"nutritionalInfo"`
}

func (b productBody) input() services.ProductInput {
	return services.ProductInput{
		Name:            b.Name,
		Description:     b.Description,
		Price:           float64(b.Price),
		CategoryID:      int(b.CategoryID),
		InStock:         b.InStock.Ptr(),
		ImageURL:        b.Image,
		Origin:          b.Origin,
		NutritionalInfo: b.NutritionalInfo,
	}
}

// @Summary      Товары
// @Tags         Catalog
// @Produce      json
// @Param        category  query     string  false  "ID или имя категории, Todas без фильтра"
// @Param        search    query     string  false  "Поиск по названию и описанию"
// @Param        inStock   query     bool    false  "Только в наличии"
// @Param        page      query     int     false  "Страница"
// @Param        limit     query     int     false  "Размер страницы"
// @Success      200       {object}  models.ProductPage
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), services.ProductQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		InStock:  queryBool(c, "inStock"),
		Page:     queryPage(c),
	})
	if err != nil {
		respondError(c, h.log, err, productErrText)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Товар
// @Tags         Catalog
// @Produce      json
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  models.Product
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, productErrText)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Новый товар
// @Description  JSON или multipart/form-data с файлом image (до 5MB) и ключами origin.* / nutritionalInfo.*
// @Tags         Catalog
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productBody  true  "Товар"
// @Success      201   {object}  models.Product
// @Failure      400   {object}  map[string]string
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	in, ok := h.readInput(c)
	if !ok {
		return
	}
	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, productErrText)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Изменение товара
// @Tags         Catalog
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "ID"
// @Param        body  body      productBody  true  "Изменяемые поля"
// @Success      200   {object}  models.Product
// @Failure      404   {object}  map[string]string
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, ok := h.readInput(c)
	if !ok {
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err, productErrText)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Удаление товара
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, productErrText)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) readInput(c *gin.Context) (services.ProductInput, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		var body productBody
		if !bindJSON(c, &body) {
			return services.ProductInput{}, false
		}
		return body.input(), true
	}

	in, err := productForm(c)
	if err != nil {
		msg := msgInvalidBody
		if errors.Is(err, errImageTooLarge) {
			msg = msgImageTooLarge
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return services.ProductInput{}, false
	}
	return in, true
}

var errImageTooLarge = errors.New("image too large")

// productForm разбирает multipart: плоские поля, origin.* и nutritionalInfo.*
// (или origin / nutritionalInfo целиком как JSON-строка) и файл image.
func productForm(c *gin.Context) (services.ProductInput, error) {
	var in services.ProductInput
	if _, err := c.MultipartForm(); err != nil {
		return in, err
	}

	in.Name = c.PostForm("name")
	in.Description = formValue(c, "description")
	in.ImageURL = formValue(c, "image")
	if v := formValue(c, "price"); v != nil {
		price, err := models.ParseDecimal(*v)
		if err != nil {
			return in, err
		}
		in.Price = price
	}
	if v := formValue(c, "categoryId"); v != nil && *v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return in, err
		}
		in.CategoryID = id
	}
	if v := formValue(c, "inStock"); v != nil {
		b := strings.TrimSpace(*v) != "false"
		in.InStock = &b
	}

	origin, err := formOrigin(c)
	if err != nil {
		return in, err
	}
	in.Origin = origin
	nutrition, err := formNutrition(c)
	if err != nil {
		return in, err
	}
	in.NutritionalInfo = nutrition

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, err
	}
	if fh.Size > services.MaxImageSize {
		return in, errImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return in, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
	if err != nil {
		return in, err
	}
	if len(data) > services.MaxImageSize {
		return in, errImageTooLarge
	}
	in.Image = &services.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	in.ImageURL = nil
	return in, nil
}

func formOrigin(c *gin.Context) (*models.ProductOrigin, error) {
	if raw := formValue(c, "origin"); raw != nil && strings.TrimSpace(*raw) != "" {
		var o models.ProductOrigin
		if err := json.Unmarshal([]byte(*raw), &o); err != nil {
			return nil, err
		}
		return &o, nil
	}
	o := models.ProductOrigin{
		Producer:    formValue(c, "origin.producer"),
		Location:    formValue(c, "origin.location"),
		Distance:    formValue(c, "origin.distance"),
		HarvestDate: formValue(c, "origin.harvestDate"),
		Story:       formValue(c, "origin.story"),
	}
	if v := formValue(c, "origin.producerId"); v != nil && strings.TrimSpace(*v) != "" {
		id, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return nil, err
		}
		o.ProducerID = &id
	}
	if v := formValue(c, "origin.certifications"); v != nil {
		o.Certifications = quoteJSON(*v)
	}
	if o.Empty() {
		return nil, nil
	}
	return &o, nil
}

func formNutrition(c *gin.Context) (*models.NutritionalInfo, error) {
	if raw := formValue(c, "nutritionalInfo"); raw != nil && strings.TrimSpace(*raw) != "" {
		var n models.NutritionalInfo
		if err := json.Unmarshal([]byte(*raw), &n); err != nil {
			return nil, err
		}
		return &n, nil
	}
	n := models.NutritionalInfo{
		Portion: formValue(c, "nutritionalInfo.portion"),
		Carbs:   formValue(c, "nutritionalInfo.carbs"),
		Fiber:   formValue(c, "nutritionalInfo.fiber"),
		Protein: formValue(c, "nutritionalInfo.protein"),
	}
	if v := formValue(c, "nutritionalInfo.calories"); v != nil && strings.TrimSpace(*v) != "" {
		cal, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return nil, err
		}
		n.Calories = &cal
	}
	if v := formValue(c, "nutritionalInfo.vitamins"); v != nil {
		n.Vitamins = quoteJSON(*v)
	}
	if n.Empty() {
		return nil, nil
	}
	return &n, nil
}

func formValue(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

// quoteJSON заворачивает значение формы в JSON-строку; сервис сам достанет из неё массив.
func quoteJSON(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
