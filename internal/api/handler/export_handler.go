package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"yoklama/backend/internal/service"
	"yoklama/backend/pkg/response"
)

const codeExportNoSessions = 20401

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出教学班出勤报表
// GET /api/v1/export/attendance/:sectionId
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	sectionID := c.Param("sectionId")
	if sectionID == "" {
		response.BadRequest(c, response.CodeBadParam, "教学班 ID 不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSectionReport(c.Request.Context(), actor, sectionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, codeSectionNotFound, "教学班不存在")
	case errors.Is(err, service.ErrExportNoSessions):
		response.NotFound(c, codeExportNoSessions, "该教学班暂无课次")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, response.CodeForbidden, "无权导出该教学班")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
