package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/streamhub/pkg/objectid"
	"github.com/d60-Lab/streamhub/pkg/response"
)

// ContextUserID 当前请求者 id 在 gin.Context 中的 key
const ContextUserID = "user_id"

// Auth 校验 access token（Authorization: Bearer 或 accessToken cookie），
// 取 _id（缺省时取 sub）作为请求者身份
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Unauthorized(c, "unauthorized request")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			response.Unauthorized(c, "invalid access token")
			return
		}

		userID, _ := claims["_id"].(string)
		if userID == "" {
			userID, _ = claims.GetSubject()
		}
		if !objectid.Valid(userID) {
			response.Unauthorized(c, "invalid access token")
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID 读取 Auth 写入的请求者 id
func UserID(c *gin.Context) string { return c.GetString(ContextUserID) }

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}
