package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListCategories(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	cats, err := h.svc.ListCategories(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) GetCategory(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	cat, err := h.svc.GetCategory(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Category
	if !bind(c, &in) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Category
	if !bind(c, &in) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "category")
}
