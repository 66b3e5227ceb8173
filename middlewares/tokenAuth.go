package middlewares

import (
	"GlobalDent/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenAuthMiddleware validates the access token and adds the operator to the request context.
// The token is read from the Authorization header, the accessToken query parameter
// or the accessToken cookie, in that order.
func TokenAuthMiddleware(tokens *utils.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			return
		}

		claims, err := tokens.ValidateToken(token, utils.TokenKindAccess)
		if err != nil {
			HttpError(c, "Invalid token", http.StatusUnauthorized, err)
			return
		}
		operatorID, err := claims.OperatorID()
		if err != nil {
			HttpError(c, "Invalid token", http.StatusUnauthorized, err)
			return
		}

		ctx := utils.WithOperator(c.Request.Context(), operatorID, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RoleAuthMiddleware restricts access to operators holding one of the roles.
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.OperatorRoleFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if token := c.Query("accessToken"); token != "" {
		return token
	}
	if token, err := c.Cookie(utils.AccessTokenCookie); err == nil {
		return token
	}
	return ""
}
