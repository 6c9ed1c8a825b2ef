package dto

// ── 报表模块 DTO ──

// SessionReport 单个课次的报表条目
// Records 按插入顺序排列；Excused 为该课次请假获批的学生
type SessionReport struct {
	ID        string           `json:"id"`
	Date      string           `json:"date"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Status    string           `json:"status"`
	Records   []RecordResponse `json:"records"`
	Excused   []StudentBrief   `json:"excused,omitempty"`
}
