package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

// ── 课次模块业务码 ──

const (
	codeSessionNotFound  = 20103
	codeSessionTimeOrder = 20104
)

// SessionHandler 课次模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Create 创建课次
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, session)
}

// Open 开放签到
// PUT /api/v1/sessions/:id/open
func (h *SessionHandler) Open(c *gin.Context) {
	h.transition(c, h.sessionSvc.Open)
}

// Close 关闭签到
// PUT /api/v1/sessions/:id/close
func (h *SessionHandler) Close(c *gin.Context) {
	h.transition(c, h.sessionSvc.Close)
}

func (h *SessionHandler) transition(c *gin.Context, op func(ctx context.Context, actor service.Actor, id string) (*dto.SessionResponse, error)) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "课次 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	session, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, codeSessionNotFound, "课次不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, codeSectionNotFound, "教学班不存在")
	case errors.Is(err, service.ErrSessionTimeOrder):
		response.BadRequest(c, codeSessionTimeOrder, "开始时间必须早于结束时间")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, codeInvalidTransition, "非法状态变更")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, response.CodeForbidden, "无权操作该教学班")
	default:
		response.InternalError(c)
	}
}
