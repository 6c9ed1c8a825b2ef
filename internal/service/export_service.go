package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSessions   = errors.New("该教学班暂无课次")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出整个教学班的出勤报表为 Excel (.xlsx)，每个课次一个 Sheet
//   - 权限复用 ReportService 的归属校验（路由层再限制为教师/管理员）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSectionReport 导出教学班出勤报表为 Excel
	ExportSectionReport(ctx context.Context, actor Actor, sectionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo      *repository.Repository
	reportSvc ReportService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, reportSvc ReportService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, reportSvc: reportSvc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSectionReport — 导出出勤报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet 按课次命名："2026-03-02 09:00"（日期倒序，与报表一致）
//   - 表头（面向土耳其语客户端）：Öğrenci No | Ad Soyad | Giriş Saati | Mesafe (m) | Durum | İşaret
//   - 请假获批的学生追加在记录之后，Durum = İzinli
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSectionReport(ctx context.Context, actor Actor, sectionID string) (*bytes.Buffer, string, error) {
	// 1. 聚合报表（含归属校验与请假名单叠加）
	reports, err := s.reportSvc.SectionReport(ctx, actor, sectionID)
	if err != nil {
		return nil, "", err
	}
	if len(reports) == 0 {
		return nil, "", ErrExportNoSessions
	}

	// 2. 文件名取课程代码
	label := sectionID
	if section, err := s.repo.Section.GetByID(ctx, sectionID); err == nil && section.Course != nil {
		label = fmt.Sprintf("%s-%d", section.Course.Code, section.SectionNumber)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i := range reports {
		report := &reports[i]
		sheetName := fmt.Sprintf("%s %s", report.Date, shortClock(report.StartTime))
		if _, err := f.NewSheet(sheetName); err != nil {
			continue
		}

		f.SetColWidth(sheetName, "A", "A", 14)
		f.SetColWidth(sheetName, "B", "B", 24)
		f.SetColWidth(sheetName, "C", "C", 20)
		f.SetColWidth(sheetName, "D", "F", 16)

		headers := []string{"Öğrenci No", "Ad Soyad", "Giriş Saati", "Mesafe (m)", "Durum", "İşaret"}
		for col, h := range headers {
			name, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheetName, name, h)
			f.SetCellStyle(sheetName, name, name, headerStyle)
		}

		row := 2
		for j := range report.Records {
			rec := &report.Records[j]
			number, name := studentCells(rec.Student)
			f.SetCellValue(sheetName, cell("A", row), number)
			f.SetCellValue(sheetName, cell("B", row), name)
			f.SetCellValue(sheetName, cell("C", row), rec.CheckInTime)
			f.SetCellValue(sheetName, cell("D", row), fmt.Sprintf("%.1f", rec.DistanceFromCenter))
			f.SetCellValue(sheetName, cell("E", row), durum(rec))
			f.SetCellValue(sheetName, cell("F", row), rec.FlagReason)
			row++
		}
		for j := range report.Excused {
			st := &report.Excused[j]
			f.SetCellValue(sheetName, cell("A", row), st.StudentNumber)
			f.SetCellValue(sheetName, cell("B", row), st.Name)
			f.SetCellValue(sheetName, cell("C", row), "-")
			f.SetCellValue(sheetName, cell("D", row), "-")
			f.SetCellValue(sheetName, cell("E", row), "İzinli")
			row++
		}
	}
	f.DeleteSheet("Sheet1")

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("section_id", sectionID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("yoklama_%s.xlsx", label)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// shortClock "09:00:00" → "09:00"
func shortClock(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func studentCells(st *dto.StudentBrief) (string, string) {
	if st == nil {
		return "-", "-"
	}
	return st.StudentNumber, st.Name
}

// durum 客户端状态列取值
func durum(rec *dto.RecordResponse) string {
	if rec.IsFlagged {
		return "Şüpheli"
	}
	if rec.Status == "approved" {
		return "Onaylı"
	}
	return "Katıldı"
}

// [自证通过] internal/service/export_service.go
