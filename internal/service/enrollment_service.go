package service

import (
	"context"

	"go.uber.org/zap"

	"yoklama/backend/internal/dto"
	"yoklama/backend/internal/repository"
)

// EnrollmentService 选课业务接口（只读，数据来自教务系统同步）
type EnrollmentService interface {
	MyCourses(ctx context.Context, actor Actor) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) MyCourses(ctx context.Context, actor Actor) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("查询选课失败", zap.String("student_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}

	out := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		item := dto.EnrollmentResponse{
			ID:        e.EnrollmentID,
			SectionID: e.SectionID,
		}
		if e.Section != nil {
			item.Section = toSectionBrief(e.Section)
		}
		out = append(out, item)
	}
	return out, nil
}
