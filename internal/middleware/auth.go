package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/dairydash-api/pkg/logger"
)

const (
	vendorIDKey    = "vendorID"
	vendorEmailKey = "vendorEmail"
)

// Claims represents the JWT claims structure
type Claims struct {
	VendorID string `json:"vendor_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that validates JWT tokens and scopes the
// request to the signed-in vendor
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader == "" {
			// bill download links carry the token in the query
			tokenString = c.Query("token")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Authorization header is required",
				})
				return
			}
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid authorization header format",
				})
				return
			}
			tokenString = parts[1]
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(vendorIDKey, claims.VendorID)
		c.Set(vendorEmailKey, claims.Email)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), "vendor_id", claims.VendorID))

		c.Next()
	}
}

func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.VendorID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// GetVendorID returns the signed-in vendor's id, or "" outside Auth
func GetVendorID(c *gin.Context) string {
	return c.GetString(vendorIDKey)
}

// GetVendorEmail returns the signed-in vendor's email
func GetVendorEmail(c *gin.Context) string {
	return c.GetString(vendorEmailKey)
}
