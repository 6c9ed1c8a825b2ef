package handler

import (
	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

// MustGetActor 从 Gin 上下文中安全提取操作者身份。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := getString(c, "user_id")
	if !ok || userID == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return service.Actor{}, false
	}
	role, ok := getString(c, "role")
	if !ok || role == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return service.Actor{}, false
	}
	// admin 无角色档案，profile_id 允许为空
	profileID, _ := getString(c, "profile_id")

	return service.Actor{UserID: userID, Role: role, ProfileID: profileID}, true
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
