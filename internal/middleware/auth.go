package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
	"github.com/restful-go/accounts/internal/pkg/response"
)

const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyToken     = "access_token"
)

// Auth returns the first gate of the chain: it rejects requests whose access
// token is missing, malformed, wrongly signed or expired. Expiry IS enforced
// here, unlike in the refresh flow.
func Auth(codec *jwtpkg.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.Unauthorized(c, "Authorization token required")
			return
		}
		claims, err := codec.Verify(token, jwtpkg.KindAccess)
		if err != nil {
			response.Unauthorized(c, "Invalid Token")
			return
		}
		if claims.Expired(time.Now()) {
			response.Unauthorized(c, "Token expired")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserEmail, claims.Email)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentUserEmail extracts the authenticated email from context.
func CurrentUserEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserEmail)
	email, _ := v.(string)
	return email
}

// CurrentToken extracts the raw bearer token from context.
func CurrentToken(c *gin.Context) string {
	v, _ := c.Get(ContextKeyToken)
	token, _ := v.(string)
	return token
}

// ExtractToken pulls the bearer token out of the Authorization header.
func ExtractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
