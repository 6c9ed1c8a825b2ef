package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Section    SectionRepository
	Enrollment EnrollmentRepository
	Session    SessionRepository
	Attendance AttendanceRepository
	Excuse     ExcuseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Section:    NewSectionRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Session:    NewSessionRepo(db),
		Attendance: NewAttendanceRepo(db),
		Excuse:     NewExcuseRepo(db),
	}
}
