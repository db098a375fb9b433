package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListBudgets(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	budgets, err := h.svc.ListBudgets(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *Handler) GetBudget(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetBudget(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) CreateBudget(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Budget
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.CreateBudget(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Budget
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.UpdateBudget(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.DeleteBudget(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget deleted", "itemsDeleted": n})
}

func (h *Handler) ListBudgetItems(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.ListBudgetItems(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateBudgetItem(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.BudgetItem
	if !bind(c, &in) {
		return
	}
	it, err := h.svc.CreateBudgetItem(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) UpdateBudgetItem(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var in models.BudgetItem
	if !bind(c, &in) {
		return
	}
	it, err := h.svc.UpdateBudgetItem(c.Request.Context(), uid, id, itemID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteBudgetItem(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	if err := h.svc.DeleteBudgetItem(c.Request.Context(), uid, id, itemID); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "budget item")
}
