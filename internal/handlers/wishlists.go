package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListWishlistParents(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	ps, err := h.svc.ListWishlistParents(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *Handler) GetWishlistParent(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetWishlistParent(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateWishlistParent(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.WishlistParent
	if !bind(c, &in) {
		return
	}
	p, err := h.svc.CreateWishlistParent(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateWishlistParent(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.WishlistParent
	if !bind(c, &in) {
		return
	}
	p, err := h.svc.UpdateWishlistParent(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteWishlistParent(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.DeleteWishlistParent(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wishlist parent deleted", "itemsDeleted": n})
}

func (h *Handler) ListWishlists(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var parent *uuid.UUID
	if raw := c.Query("parentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parentId"})
			return
		}
		parent = &id
	}
	items, err := h.svc.ListWishlists(c.Request.Context(), uid, parent)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) WishlistsWithParents(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.svc.WishlistsWithParents(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetWishlist(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	w, err := h.svc.GetWishlist(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) CreateWishlist(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Wishlist
	if !bind(c, &in) {
		return
	}
	w, err := h.svc.CreateWishlist(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) UpdateWishlist(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Wishlist
	if !bind(c, &in) {
		return
	}
	w, err := h.svc.UpdateWishlist(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWishlist(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteWishlist(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "wishlist item")
}
