package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

// SectionHandler 教学班模块 HTTP 处理器
type SectionHandler struct {
	sectionSvc service.SectionService
}

// NewSectionHandler 创建 SectionHandler
func NewSectionHandler(sectionSvc service.SectionService) *SectionHandler {
	return &SectionHandler{sectionSvc: sectionSvc}
}

// List 可见教学班列表
// GET /api/v1/sections
func (h *SectionHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sections, err := h.sectionSvc.List(c.Request.Context(), actor)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

// Get 教学班详情
// GET /api/v1/sections/:id
func (h *SectionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeBadParam, "教学班 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	section, err := h.sectionSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

func (h *SectionHandler) handleSectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, codeSectionNotFound, "教学班不存在")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, response.CodeForbidden, "无权查看该教学班")
	default:
		response.InternalError(c)
	}
}
