package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
)

// adminAuth: Basic Auth 미들웨어. 비밀번호는 bcrypt 해시와 대조한다.
func adminAuth(cfg config.ServerConfig, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != cfg.AdminUser {
			unauthorized(c)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPassHash), []byte(pass)); err != nil {
			logger.Warn("Admin auth rejected",
				slog.String("user", user),
				slog.String("remote", c.ClientIP()),
			)
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="meal-alarm-admin"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
