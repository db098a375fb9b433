package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/auth"
)

// UserToken registers the user on first sight and issues a user token.
func (h *Handler) UserToken(c *gin.Context) {
	u, err := h.svc.FindOrCreateUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	tok, err := h.tokens.IssueForUser(*u)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": auth.Bearer(tok)})
}

// ValidateToken checks the bearer token and trades it for a fresh user token.
func (h *Handler) ValidateToken(c *gin.Context) {
	invalid := func(msg string) {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": msg})
	}
	raw, ok := auth.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		invalid("Missing bearer token.")
		return
	}
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		log.Debug().Err(err).Msg("token validation failed")
		invalid("Invalid or expired token.")
		return
	}
	email, _ := claims[auth.ClaimEmail].(string)
	if email == "" {
		email, _ = claims["sub"].(string)
	}
	if email == "" {
		invalid("Token does not carry an email.")
		return
	}
	u, err := h.svc.FindOrCreateUser(c.Request.Context(), email)
	if err != nil {
		invalid(err.Error())
		return
	}
	tok, err := h.tokens.IssueForUser(*u)
	if err != nil {
		fail(c, err)
		return
	}
	name, _, _ := strings.Cut(u.Email, "@")
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"message": "Token validated successfully.",
		"token":   auth.Bearer(tok),
		"email":   u.Email,
		"role":    u.Role,
		"name":    name,
	})
}

func (h *Handler) Me(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	u, err := h.svc.Me(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Debug(c *gin.Context) {
	c.String(http.StatusOK, "Debug endpoint")
}

type debugTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

func (h *Handler) DebugGenerateToken(c *gin.Context) {
	var req debugTokenRequest
	if !bind(c, &req) {
		return
	}
	tok, err := h.tokens.IssueDebug(strings.ToLower(req.Email), req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": auth.Bearer(tok)})
}

func (h *Handler) DebugSecure(c *gin.Context) {
	c.String(http.StatusOK, "This is a secure endpoint. You are authenticated!")
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Healthy"})
}
