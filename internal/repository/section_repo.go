package repository

import (
	"context"

	"gorm.io/gorm"

	"yoklama/backend/internal/model"
)

// SectionRepository 教学班数据访问接口（核心引擎只读）
type SectionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Section, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]model.Section, error)
	ListAll(ctx context.Context) ([]model.Section, error)
}

// sectionRepo SectionRepository 的 GORM 实现
type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) GetByID(ctx context.Context, id string) (*model.Section, error) {
	var section model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("section_id = ?", id).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) ListByFaculty(ctx context.Context, facultyID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("faculty_id = ?", facultyID).
		Order("created_at ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) ListAll(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Order("created_at ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}
