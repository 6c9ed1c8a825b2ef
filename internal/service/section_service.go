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

// SectionService 教学班业务接口（只读）
type SectionService interface {
	// List 按角色返回可见教学班：教师看名下、管理员看全部
	List(ctx context.Context, actor Actor) ([]dto.SectionResponse, error)
	Get(ctx context.Context, actor Actor, sectionID string) (*dto.SectionResponse, error)
}

type sectionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSectionService 创建 SectionService 实例
func NewSectionService(repo *repository.Repository, logger *zap.Logger) SectionService {
	return &sectionService{repo: repo, logger: logger}
}

func (s *sectionService) List(ctx context.Context, actor Actor) ([]dto.SectionResponse, error) {
	var sections []model.Section
	var err error

	switch actor.Role {
	case model.RoleAdmin:
		sections, err = s.repo.Section.ListAll(ctx)
	case model.RoleFaculty:
		sections, err = s.repo.Section.ListByFaculty(ctx, actor.ProfileID)
	default:
		return nil, ErrNotAuthorized
	}
	if err != nil {
		s.logger.Error("查询教学班列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		out = append(out, *toSectionResponse(&sections[i]))
	}
	return out, nil
}

func (s *sectionService) Get(ctx context.Context, actor Actor, sectionID string) (*dto.SectionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleFaculty:
		if section.FacultyID != actor.ProfileID {
			return nil, ErrNotAuthorized
		}
	case model.RoleStudent:
		enrolled, err := s.repo.Enrollment.Exists(ctx, actor.ProfileID, sectionID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrNotAuthorized
		}
	default:
		return nil, ErrNotAuthorized
	}

	return toSectionResponse(section), nil
}

func toSectionResponse(section *model.Section) *dto.SectionResponse {
	resp := &dto.SectionResponse{
		ID:            section.SectionID,
		SectionNumber: section.SectionNumber,
		FacultyID:     section.FacultyID,
		CenterLat:     section.CenterLat,
		CenterLng:     section.CenterLng,
		RadiusM:       section.RadiusM,
	}
	if section.Course != nil {
		resp.Course = &dto.CourseBrief{
			ID:   section.Course.CourseID,
			Code: section.Course.Code,
			Name: section.Course.Name,
		}
	}
	return resp
}
