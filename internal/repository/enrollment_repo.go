package repository

import (
	"context"

	"gorm.io/gorm"

	"yoklama/backend/internal/model"
)

// EnrollmentRepository 选课数据访问接口（外部数据，只读）
type EnrollmentRepository interface {
	Exists(ctx context.Context, studentID, sectionID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
}

// enrollmentRepo EnrollmentRepository 的 GORM 实现
type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, sectionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
