package middleware

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/security"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(j *security.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, j)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware(j *security.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, j)
		if !ok {
			c.Set(consts.UserIDKey, uint64(0))
			c.Next()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

func parseBearer(c *gin.Context, j *security.JWT) (*security.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return nil, false
	}
	// 登出的 Token 由认证服务写入黑名单
	if redis.Rdb != nil {
		value, err := redis.GetValue(c.Request.Context(), consts.TokenDenyKey+signature)
		if err != nil {
			log.WarnContext(c.Request.Context(), "token deny list unavailable", "err", err)
		} else if value != "" {
			return nil, false
		}
	}

	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.UserIDKey, claims.UserID)
	c.Set(consts.RolesKey, claims.Roles)
	newCtx := context.WithValue(c.Request.Context(), consts.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
