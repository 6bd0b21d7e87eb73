package middleware

import (
	"net/http"
	"strings"
	"time"

	"salon-admin/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxStaffID   = "staff_id"
	CtxStaffName = "staff_name"
	CtxRole      = "role"
)

// renewWindow is the remaining lifetime below which a fresh token is sent in
// X-New-Token.
const renewWindow = 24 * time.Hour

type Claims struct {
	UID  string     `json:"uid"`
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret []byte, ttl time.Duration, uid, name string, role model.Role) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:  uid,
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(secret)
}

func JWTAuth(secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		var claims Claims
		token, err := jwt.ParseWithClaims(auth[7:], &claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}
		c.Set(CtxStaffID, claims.UID)
		c.Set(CtxStaffName, claims.Name)
		c.Set(CtxRole, string(claims.Role))

		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < renewWindow {
			if fresh, err := IssueToken(secret, ttl, claims.UID, claims.Name, claims.Role); err == nil {
				c.Header("X-New-Token", fresh)
			}
		}

		c.Next()
	}
}

// RequireAdmin rejects staff tokens.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != string(model.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}
