package dto

// ── 请假模块 DTO ──

// SubmitExcuseRequest 学生提交请假（multipart 表单，document 文件单独取）
type SubmitExcuseRequest struct {
	SessionID string `form:"sessionId" binding:"required,uuid"`
	Reason    string `form:"reason"    binding:"required,min=2,max=1000"`
}

// DecideExcuseRequest 教师裁决请假
type DecideExcuseRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// ExcuseListRequest 请假列表查询参数（教师收件箱）
type ExcuseListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	PaginationRequest
}

// ExcuseResponse 请假申请响应
type ExcuseResponse struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	StudentID   string        `json:"student_id"`
	Reason      string        `json:"reason"`
	DocumentKey string        `json:"document_key"`
	Status      string        `json:"status"`
	DecidedAt   *string       `json:"decided_at,omitempty"`
	CreatedAt   string        `json:"created_at"`
	Student     *StudentBrief `json:"student,omitempty"`
	Session     *SessionBrief `json:"session,omitempty"`
}
