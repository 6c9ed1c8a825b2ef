package model

import "time"

// ── 请假申请状态（pending 只允许裁决一次） ──

const (
	ExcusePending  = "pending"
	ExcuseApproved = "approved"
	ExcuseRejected = "rejected"
)

// ExcuseRequest 请假申请表 — 对应 excuse_requests
// 不变量：同一 (session, student) 至多一条 pending/approved 申请（部分唯一索引）；
// document_key 指向外部存储的证明材料，提交与落库全有或全无
type ExcuseRequest struct {
	ExcuseID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"excuse_id"`
	SessionID   string     `gorm:"type:uuid;not null"                             json:"session_id"`
	StudentID   string     `gorm:"type:uuid;not null"                             json:"student_id"`
	Reason      string     `gorm:"type:varchar(1000);not null"                    json:"reason"`
	DocumentKey string     `gorm:"type:varchar(255);not null"                     json:"document_key"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	DecidedBy   *string    `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	BaseModel

	// 关联
	Session *ClassSession   `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
	Student *StudentProfile `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (ExcuseRequest) TableName() string { return "excuse_requests" }
