package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/internal/services"
	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListBills(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	bills, err := h.svc.ListBills(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handler) GetBill(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetBill(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) UpcomingBills(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	days := services.DefaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a number"})
			return
		}
		days = n
	}
	bills, err := h.svc.UpcomingBills(c.Request.Context(), uid, days)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handler) OverdueBills(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	bills, err := h.svc.OverdueBills(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handler) CreateBill(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Bill
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.CreateBill(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBill(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var in models.Bill
	if !bind(c, &in) {
		return
	}
	b, err := h.svc.UpdateBill(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) PayBill(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.PayBill(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBill(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBill(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "bill")
}
