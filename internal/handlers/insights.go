package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftmatrix/savetrack-api/internal/services"
)

func (h *Handler) ListInsights(c *gin.Context) {
	h.listInsights(c, false)
}

func (h *Handler) UnreadInsights(c *gin.Context) {
	h.listInsights(c, true)
}

func (h *Handler) listInsights(c *gin.Context, unreadOnly bool) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.svc.ListInsights(c.Request.Context(), uid, unreadOnly)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) MarkInsightRead(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	in, err := h.svc.MarkInsightRead(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *Handler) DeleteInsight(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInsight(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "insight")
}

// GenerateInsight handles POST generate/:kind, e.g. generate/spending-analysis.
func (h *Handler) GenerateInsight(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	in, err := h.svc.GenerateInsight(c.Request.Context(), uid, services.InsightKind(c.Param("kind")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}
