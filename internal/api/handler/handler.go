package handler

import (
	"yoklama/backend/config"
	"yoklama/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Section    *SectionHandler
	Enrollment *EnrollmentHandler
	Session    *SessionHandler
	Attendance *AttendanceHandler
	Excuse     *ExcuseHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Section:    NewSectionHandler(svc.Section),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Session:    NewSessionHandler(svc.Session),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Moderation, svc.Report),
		Excuse:     NewExcuseHandler(svc.Excuse, cfg.Storage.MaxUploadSize),
		Export:     NewExportHandler(svc.Export),
	}
}
