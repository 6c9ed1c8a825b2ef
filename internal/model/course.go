package model

// Course 课程表 — 对应 courses
// 课程目录归教务系统管理，核心引擎只读
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Section 教学班表 — 对应 sections
// 电子围栏（中心坐标 + 半径）挂在教学班上
type Section struct {
	SectionID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	CourseID      string  `gorm:"type:uuid;not null"                             json:"course_id"`
	FacultyID     string  `gorm:"type:uuid;not null"                             json:"faculty_id"`
	SectionNumber int     `gorm:"not null;default:1"                             json:"section_number"`
	CenterLat     float64 `gorm:"not null"                                       json:"center_lat"`
	CenterLng     float64 `gorm:"not null"                                       json:"center_lng"`
	RadiusM       float64 `gorm:"not null"                                       json:"radius_m"`
	BaseModel

	// 关联
	Course  *Course         `gorm:"foreignKey:CourseID;references:CourseID"    json:"course,omitempty"`
	Faculty *FacultyProfile `gorm:"foreignKey:FacultyID;references:FacultyID"  json:"faculty,omitempty"`
}

func (Section) TableName() string { return "sections" }

// Enrollment 选课表 — 对应 enrollments
// (student, section) 唯一；ExcuseResolver 和 ReportAggregator 据此做归属校验
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null;uniqueIndex:uniq_enrollment" json:"student_id"`
	SectionID    string `gorm:"type:uuid;not null;uniqueIndex:uniq_enrollment" json:"section_id"`
	BaseModel

	// 关联
	Student *StudentProfile `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Section *Section        `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }
