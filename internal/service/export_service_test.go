package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, *testRepos) {
	t.Helper()
	repo, mocks := newTestRepos()
	logger := zap.NewNop()
	reportSvc := NewReportService(repo, logger)
	svc := NewExportService(repo, reportSvc, logger)
	return svc, mocks
}

// ── ExportSectionReport 测试 ──

func TestExportService_ExportSectionReport_NoSessions(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedSection(mocks, "sec-001", "fac-001")

	_, _, err := svc.ExportSectionReport(context.Background(), facultyActor, "sec-001")
	if !errors.Is(err, ErrExportNoSessions) {
		t.Errorf("期望 ErrExportNoSessions，实际: %v", err)
	}
}

func TestExportService_ExportSectionReport_SectionNotFound(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportSectionReport(context.Background(), facultyActor, "sec-yok")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("期望 ErrSectionNotFound，实际: %v", err)
	}
}

func TestExportService_ExportSectionReport_NotOwned(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedSection(mocks, "sec-001", "fac-001")
	seedSession(mocks, "ses-001", "sec-001", model.SessionClosed,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "09:00:00", "10:50:00")

	intruder := Actor{UserID: "usr-fac-002", Role: model.RoleFaculty, ProfileID: "fac-002"}
	_, _, err := svc.ExportSectionReport(context.Background(), intruder, "sec-001")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("归属校验应由报表层承接，期望 ErrNotAuthorized，实际: %v", err)
	}
}

func TestExportService_ExportSectionReport_Success(t *testing.T) {
	svc, mocks := setupTestExportService(t)
	seedSection(mocks, "sec-001", "fac-001")

	student := &model.StudentProfile{
		StudentID:     "stu-001",
		StudentNumber: "2023001",
		User:          newTestUser("usr-stu-001", "Ayşe Yılmaz", model.RoleStudent),
	}
	session := seedSession(mocks, "ses-001", "sec-001", model.SessionClosed,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "09:00:00", "10:50:00")
	session.Records = []model.AttendanceRecord{
		{RecordID: "rec-001", SessionID: "ses-001", StudentID: "stu-001",
			CheckInTime:        time.Date(2026, 3, 2, 9, 2, 0, 0, time.UTC),
			DistanceFromCenter: 41.3,
			Status:             model.RecordActive, Student: student},
	}

	buf, filename, err := svc.ExportSectionReport(context.Background(), facultyActor, "sec-001")
	if err != nil {
		t.Fatalf("ExportSectionReport 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出的 Excel buffer 不应为空")
	}
	if filename != "yoklama_BLG411-1.xlsx" {
		t.Errorf("文件名应取课程代码，实际: %s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	header := buf.Bytes()[:2]
	if header[0] != 0x50 || header[1] != 0x4B {
		t.Error("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
	}
}

// ── 状态列取值测试 ──

func TestExportService_Durum(t *testing.T) {
	cases := []struct {
		name      string
		isFlagged bool
		status    string
		want      string
	}{
		{"被标记", true, "active", "Şüpheli"},
		{"复核通过", false, "approved", "Onaylı"},
		{"正常出勤", false, "active", "Katıldı"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &dto.RecordResponse{IsFlagged: tc.isFlagged, Status: tc.status}
			if got := durum(rec); got != tc.want {
				t.Errorf("durum=%s，期望=%s", got, tc.want)
			}
		})
	}
}
