package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jomosquito/Edmonton-v.02/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRoles 从 Gin 上下文中安全提取角色列表。
func MustGetRoles(c *gin.Context) ([]string, bool) {
	v, exists := c.Get("roles")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	roles, ok := v.([]string)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return roles, true
}

// GetTokenMeta 提取当前 Token 的 jti 与过期时间（登出拉黑用）。
// 缺失时返回零值，不写入错误响应。
func GetTokenMeta(c *gin.Context) (jti string, expiresAt time.Time) {
	if v, exists := c.Get("token_jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("token_exp"); exists {
		expiresAt, _ = v.(time.Time)
	}
	return jti, expiresAt
}
