package middleware

import (
	"net/http"
	"strings"

	"energy-center-checklist/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenHashAuth guards operator-only routes with a shared token whose bcrypt
// hash is configured. The token is read from the Authorization header
// ("Bearer <token>") or the token query parameter. An empty hash closes the
// route.
func TokenHashAuth(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.String(http.StatusNotFound, "Não encontrado")
			c.Abort()
			return
		}

		token := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			bearer := strings.TrimPrefix(authHeader, "Bearer ")
			if bearer == authHeader {
				c.String(http.StatusUnauthorized, "Formato de autorização inválido")
				c.Abort()
				return
			}
			token = bearer
		}

		if token == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
			config.Logger.Warn("Rejected operator token",
				zap.String("path", c.FullPath()),
				zap.String("client_ip", c.ClientIP()),
			)
			c.String(http.StatusUnauthorized, "Não autorizado")
			c.Abort()
			return
		}

		c.Next()
	}
}
