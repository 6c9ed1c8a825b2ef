package model

// User 用户表 — 对应 users
// 账号签发、登录由外部认证服务负责；这里只承载报表展示所需字段
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"` // student | faculty | admin
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// StudentProfile 学生档案表 — 对应 student_profiles
type StudentProfile struct {
	StudentID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UserID        string `gorm:"type:uuid;not null"                             json:"user_id"`
	StudentNumber string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_number"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

// FacultyProfile 教师档案表 — 对应 faculty_profiles
type FacultyProfile struct {
	FacultyID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"faculty_id"`
	UserID    string `gorm:"type:uuid;not null"                             json:"user_id"`
	Title     string `gorm:"type:varchar(50)"                               json:"title,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (FacultyProfile) TableName() string { return "faculty_profiles" }
