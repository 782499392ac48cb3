package middleware

import (
	"crypto/subtle"
	"net/http"

	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// IsAuthorized compares the whole Authorization header against "Bearer <secret>".
// An empty configured secret authorizes nobody.
func (am *AuthMiddleware) IsAuthorized(header string) bool {
	if am.secret == "" || header == "" {
		return false
	}
	expected := bearerPrefix + am.secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

// WithAuthCheck rejects requests without the admin bearer token.
func (am *AuthMiddleware) WithAuthCheck() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		if !am.IsAuthorized(gCtx.GetHeader("Authorization")) {
			gCtx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
			return
		}
		gCtx.Next()
	}
}
