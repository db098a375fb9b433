package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/internal/services"
	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListCharts(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	f := services.ChartFilter{ChartType: c.Query("chartType"), Category: c.Query("category")}
	charts, err := h.svc.ListCharts(c.Request.Context(), uid, f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (h *Handler) GetChart(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	ch, err := h.svc.GetChart(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) CreateChart(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.ChartData
	if !bind(c, &in) {
		return
	}
	ch, err := h.svc.CreateChart(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) UpdateChart(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var in models.ChartData
	if !bind(c, &in) {
		return
	}
	ch, err := h.svc.UpdateChart(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) DeleteChart(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteChart(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "chart")
}

func (h *Handler) GenerateChart(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req services.ChartRequest
	if !bind(c, &req) {
		return
	}
	gen, err := h.svc.GenerateChart(c.Request.Context(), uid, req)
	if err != nil {
		fail(c, err)
		return
	}
	if gen.Chart != nil {
		c.JSON(http.StatusCreated, gen.Chart)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gen.Data, "generated": true})
}

func (h *Handler) ClearChartCache(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.svc.ClearChartCache(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Cleared %d expired cache entries", n)})
}
