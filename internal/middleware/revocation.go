package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/pkg/response"
	"go.uber.org/zap"
)

// Checker answers whether a token has been revoked.
type Checker interface {
	Has(ctx context.Context, token string) (bool, error)
}

// Revocation returns the second gate of the chain. It runs after Auth on the
// same raw token and rejects revoked bearers. When the store is unreachable
// it fails open: signature and expiry checks have already passed, and
// availability of the revocation layer is not required for their
// correctness.
func Revocation(checker Checker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := CurrentToken(c)
		if token == "" {
			c.Next()
			return
		}

		revoked, err := checker.Has(c.Request.Context(), token)
		if err != nil {
			log.Warn("revocation store unreachable, failing open", zap.Error(err))
			c.Next()
			return
		}
		if revoked {
			response.Forbidden(c, "Revoked Token")
			return
		}
		c.Next()
	}
}
