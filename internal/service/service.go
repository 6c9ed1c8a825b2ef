package service

import (
	"go.uber.org/zap"

	"yoklama/backend/config"
	"yoklama/backend/internal/repository"
	"yoklama/backend/pkg/storage"
)

// Actor 当前请求的操作者身份
// 由 JWT 中间件注入，所有操作显式传入，禁止从全局状态读取
type Actor struct {
	UserID    string
	Role      string // student | faculty | admin
	ProfileID string // student → 学生档案 ID；faculty → 教师档案 ID
}

// Service 所有 Service 的聚合入口
type Service struct {
	Section    SectionService
	Enrollment EnrollmentService
	Session    SessionService
	Attendance AttendanceService
	Moderation ModerationService
	Excuse     ExcuseService
	Report     ReportService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.Store,
	logger *zap.Logger,
) *Service {
	sessionSvc := NewSessionService(&cfg.Attendance, repo, logger)
	reportSvc := NewReportService(repo, logger)

	return &Service{
		Section:    NewSectionService(repo, logger),
		Enrollment: NewEnrollmentService(repo, logger),
		Session:    sessionSvc,
		Attendance: NewAttendanceService(&cfg.Attendance, repo, sessionSvc, logger),
		Moderation: NewModerationService(repo, logger),
		Excuse:     NewExcuseService(repo, store, logger),
		Report:     reportSvc,
		Export:     NewExportService(repo, reportSvc, logger),
	}
}
