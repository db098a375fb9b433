package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListTransactions(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	entries, err := h.svc.ListTransactions(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	e, err := h.svc.GetTransaction(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) TransactionsByAccount(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "accountId")
	if !ok {
		return
	}
	entries, err := h.svc.TransactionsByAccount(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) TransactionsByCategory(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "categoryId")
	if !ok {
		return
	}
	entries, err := h.svc.TransactionsByCategory(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Transaction
	if !bind(c, &in) {
		return
	}
	e, err := h.svc.CreateTransaction(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Transaction
	if !bind(c, &in) {
		return
	}
	e, err := h.svc.UpdateTransaction(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "transaction")
}
