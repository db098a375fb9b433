package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListAccounts(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	accounts, err := h.svc.ListAccounts(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) GetAccount(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetAccount(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Account
	if !bind(c, &in) {
		return
	}
	a, err := h.svc.CreateAccount(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Account
	if !bind(c, &in) {
		return
	}
	a, err := h.svc.UpdateAccount(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "account")
}

func (h *Handler) AccountBalances(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	balances, err := h.svc.AccountBalances(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *Handler) AccountBalance(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.AccountBalance(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
