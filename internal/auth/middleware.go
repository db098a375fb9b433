package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
)

const callerKey = "auth.caller"

// Middleware rejects requests without a valid bearer token and stores the
// resolved CallerIdentity on the context.
func Middleware(tokens *Tokens, resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			log.Debug().Err(err).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		id, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

// Caller returns the identity stored by Middleware.
func Caller(c *gin.Context) (CallerIdentity, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return CallerIdentity{}, false
	}
	id, ok := v.(CallerIdentity)
	return id, ok
}
