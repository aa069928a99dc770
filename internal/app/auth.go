package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig identifies the single admin account allowed into the
// moderation dashboard.
type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string // bcrypt
	JWTSecret         string
	SessionTTL        time.Duration
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (a *App) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.TrimSpace(req.Email)
	if !strings.EqualFold(email, a.Auth.AdminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(a.Auth.AdminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   a.Auth.AdminEmail,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.Auth.SessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Auth.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "email": a.Auth.AdminEmail})
}

// AdminAuthMiddleware gates the moderation routes on a bearer token whose
// subject is the configured admin identity. Anything else is denied before
// reaching a handler.
func AdminAuthMiddleware(auth AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(auth.JWTSecret), nil
		}, jwt.WithLeeway(5*time.Second))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !strings.EqualFold(claims.Subject, auth.AdminEmail) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not an admin"})
			return
		}

		c.Next()
	}
}
