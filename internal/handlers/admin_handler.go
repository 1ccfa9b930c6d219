package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feiraja/internal/middleware"
	"feiraja/internal/models"
	"feiraja/internal/services"
)

var adminErrText = errText{
	notFound: "Admin not found",
	conflict: "Username or email already exists",
}

// @Summary      Администраторы
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Admin
// @Router       /admin/admins [get]
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	list, err := h.authService.ListAdmins(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, adminErrText)
		return
	}
	if list == nil {
		list = []*models.Admin{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Новый администратор
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      services.AdminInput  true  "Учётка"
// @Success      201   {object}  models.Admin
// @Failure      400   {object}  map[string]string
// @Router       /admin/admins [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var in services.AdminInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.authService.CreateAdmin(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, adminErrText)
		return
	}
	actor, _ := middleware.AdminID(c)
	h.log.Infow("[admin][admins] created", "admin_id", a.ID, "by", actor)
	c.JSON(http.StatusCreated, a)
}

// @Summary      Изменение администратора
// @Description  Пустые поля не меняются; новый пароль от 6 символов
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "ID"
// @Param        body  body      services.AdminUpdate  true  "Изменяемые поля"
// @Success      200   {object}  models.Admin
// @Failure      404   {object}  map[string]string
// @Router       /admin/admins/{id} [put]
func (h *AuthHandler) UpdateAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.AdminUpdate
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.authService.UpdateAdmin(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err, adminErrText)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Удаление администратора
// @Description  Свою учётку удалить нельзя
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/admins/{id} [delete]
func (h *AuthHandler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	actor, _ := middleware.AdminID(c)
	if err := h.authService.DeleteAdmin(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err, adminErrText)
		return
	}
	h.log.Infow("[admin][admins] deleted", "admin_id", id, "by", actor)
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
