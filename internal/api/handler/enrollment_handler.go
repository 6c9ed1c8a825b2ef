package handler

import (
	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// MyCourses 我的选课
// GET /api/v1/enrollments/my-courses
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentSvc.MyCourses(c.Request.Context(), actor)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": enrollments})
}
