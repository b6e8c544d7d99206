package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 认证服务签发的 Token 中包含的业务信息
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
