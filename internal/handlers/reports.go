package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/internal/services"
	"github.com/craftmatrix/savetrack-api/models"
)

func (h *Handler) ListReports(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	reports, err := h.svc.ListReports(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) GetReport(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.GetReport(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) CreateReport(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in models.Report
	if !bind(c, &in) {
		return
	}
	r, err := h.svc.CreateReport(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateReport(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in models.Report
	if !bind(c, &in) {
		return
	}
	r, err := h.svc.UpdateReport(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteReport(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "report")
}

// GenerateReport computes a report of the :type kind. A saved report comes
// back as the stored entity, otherwise the raw payload is returned.
func (h *Handler) GenerateReport(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	kind, err := services.ParseReportKind(c.Param("type"))
	if err != nil {
		fail(c, err)
		return
	}
	var req services.ReportRequest
	if !bindOptional(c, &req) {
		return
	}
	gen, err := h.svc.GenerateReport(c.Request.Context(), uid, kind, req)
	if err != nil {
		fail(c, err)
		return
	}
	if gen.Report != nil {
		c.JSON(http.StatusCreated, gen.Report)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gen.Data, "generated": true})
}
