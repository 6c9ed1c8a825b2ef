package dto

// ── 教学班 / 选课 DTO ──

// SectionBrief 教学班摘要
type SectionBrief struct {
	ID            string       `json:"id"`
	SectionNumber int          `json:"section_number"`
	Course        *CourseBrief `json:"course,omitempty"`
}

// CourseBrief 课程摘要
type CourseBrief struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// SectionResponse 教学班响应（含围栏参数，教师端展示用）
type SectionResponse struct {
	ID            string       `json:"id"`
	SectionNumber int          `json:"section_number"`
	FacultyID     string       `json:"faculty_id"`
	CenterLat     float64      `json:"center_lat"`
	CenterLng     float64      `json:"center_lng"`
	RadiusM       float64      `json:"radius_m"`
	Course        *CourseBrief `json:"course,omitempty"`
}

// EnrollmentResponse 选课响应
type EnrollmentResponse struct {
	ID        string        `json:"id"`
	SectionID string        `json:"section_id"`
	Section   *SectionBrief `json:"section,omitempty"`
}
