package dto

// ── 课次模块 DTO ──

// CreateSessionRequest 创建课次请求（教师排课）
type CreateSessionRequest struct {
	SectionID string `json:"section_id" binding:"required,uuid"`
	Date      string `json:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required"` // "09:00" 或 "09:00:00"
	EndTime   string `json:"end_time"   binding:"required"`
}

// SessionResponse 课次响应
type SessionResponse struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}
