// Package types 错误分类定义
//
// ⚠️ **错误分类体系 (Error Taxonomy)**
//
// 引擎的所有操作要么完整提交，要么以下列分类之一整体失败：
// - ErrUnauthorized: 调用者缺少所有权或角色
// - ErrNotFound: 引用的账户/单元/提案/规则不存在
// - ErrInvalidState: 单元/提案处于不兼容状态（锁定、已质押、投票已关闭）
// - ErrInsufficientResource: 余额/共鸣值/法定人数不足
// - ErrInvariantViolation: 内部一致性检查失败（视为引擎缺陷，禁止吞掉）
// - ErrAlreadyProcessed: 重复领取/重复投票/重复执行
//
// 失败的操作不产生任何副作用（验证先于变更），调用方通过 errors.Is 判别分类。
package types

import "errors"

var (
	// ErrUnauthorized 调用者缺少所需的所有权或权限
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound 引用的账户、单元、提案或规则不存在
	ErrNotFound = errors.New("not found")

	// ErrInvalidState 操作与当前状态不兼容（锁定中、已质押、投票已关闭等）
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientResource 余额、共鸣值或法定人数低于要求阈值
	ErrInsufficientResource = errors.New("insufficient resource")

	// ErrInvariantViolation 内部一致性检查失败
	//
	// 该错误表示引擎自身缺陷，调用方不得捕获后静默忽略。
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrAlreadyProcessed 一次性操作被重复触发（重复投票、重复领取、重复执行）
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrZeroAddress 目标为零地址（铸造/转账不允许指向零地址）
	ErrZeroAddress = errors.New("zero address")
)
