package dto

// ── 签到模块 DTO ──

// CheckInRequest 学生签到请求
type CheckInRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
	// 指针承载坐标：0 是合法经纬度（赤道/本初子午线），required 只校验字段在场
	Lat *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" binding:"required,min=-180,max=180"`
}

// ModerateRecordRequest 审核签到记录请求
// 客户端约定：PUT {action: "approve"}；拒绝走 DELETE
type ModerateRecordRequest struct {
	Action string `json:"action" binding:"required,oneof=approve"`
}

// RecordResponse 签到记录响应
type RecordResponse struct {
	ID                 string        `json:"id"`
	SessionID          string        `json:"session_id"`
	StudentID          string        `json:"student_id"`
	CheckInTime        string        `json:"check_in_time"`
	DistanceFromCenter float64       `json:"distance_from_center"`
	IsFlagged          bool          `json:"is_flagged"`
	FlagReason         string        `json:"flag_reason,omitempty"`
	Status             string        `json:"status"`
	Student            *StudentBrief `json:"student,omitempty"`
}

// StudentBrief 学生摘要（报表嵌套用）
type StudentBrief struct {
	ID            string `json:"id"`
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
}

// MyAttendanceItem 学生个人签到历史条目（联查课次/教学班/课程）
type MyAttendanceItem struct {
	RecordResponse
	Session *SessionBrief `json:"session,omitempty"`
}

// SessionBrief 课次摘要
type SessionBrief struct {
	ID        string        `json:"id"`
	Date      string        `json:"date"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Status    string        `json:"status"`
	Section   *SectionBrief `json:"section,omitempty"`
}
