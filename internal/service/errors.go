package service

import "errors"

// ── 跨模块共享的业务错误 ──
// 引擎内所有错误对触发请求终态，不做自动重试；由调用方决定是否重新提交

var (
	// NotFound 类
	ErrSectionNotFound = errors.New("教学班不存在")
	ErrSessionNotFound = errors.New("课次不存在")
	ErrRecordNotFound  = errors.New("签到记录不存在")
	ErrExcuseNotFound  = errors.New("请假申请不存在")

	// 权限 / 归属类
	ErrNotAuthorized = errors.New("无权执行该操作")
	ErrNotEnrolled   = errors.New("未选该教学班的课")

	// 状态类
	ErrInvalidTransition = errors.New("非法状态变更")
	ErrSessionNotOpen    = errors.New("课次未开放签到")
	ErrSessionNotEnded   = errors.New("课次尚未结束")

	// 唯一性类
	ErrDuplicateCheckIn = errors.New("该课次已有签到记录")
	ErrDuplicateExcuse  = errors.New("该课次已有待处理或已批准的请假")
	ErrAlreadyAttended  = errors.New("该课次已有有效签到，无需请假")

	// 校验类
	ErrEmptyReason     = errors.New("请假原因不能为空")
	ErrMissingEvidence = errors.New("缺少证明材料")
)
