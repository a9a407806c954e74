// Package utils 提供引擎通用的金额与整数运算工具
package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// ========================================
// 核心金额解析函数
// ========================================

// ParseAmountSafely 安全解析金额字符串为uint64
//
// 算法说明：
// 1. 使用big.Int进行安全解析和范围验证
// 2. 检查是否超出uint64范围
// 3. 提供详细的错误信息
//
// 参数：
//   - amountStr: 金额字符串（十进制wei整数）
//
// 返回：
//   - uint64: 解析后的金额
//   - error: 解析错误
func ParseAmountSafely(amountStr string) (uint64, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return 0, nil
	}

	bigAmount := new(big.Int)
	bigAmount, ok := bigAmount.SetString(amountStr, 10)
	if !ok {
		return 0, fmt.Errorf("金额格式无效: %s", amountStr)
	}

	if bigAmount.Sign() < 0 {
		return 0, fmt.Errorf("金额不能为负数: %s", amountStr)
	}

	// 检查uint64范围（关键！防止溢出）
	if !bigAmount.IsUint64() {
		return 0, fmt.Errorf("金额超出支持范围: %s", amountStr)
	}

	return bigAmount.Uint64(), nil
}

// ========================================
// 【生产级】精确整数计算工具（强制使用）
// ========================================

// MulDivUint64 安全的乘除运算（防溢出）
//
// 计算 (x * multiplier) / divisor，使用big.Int避免中间结果溢出。
//
// 参数：
//   - x: 被乘数
//   - multiplier: 乘数
//   - divisor: 除数
//
// 返回：
//   - uint64: 计算结果
//   - error: 溢出或除零错误
func MulDivUint64(x, multiplier, divisor uint64) (uint64, error) {
	if divisor == 0 {
		return 0, fmt.Errorf("除数不能为零")
	}

	bigX := new(big.Int).SetUint64(x)
	bigMul := new(big.Int).SetUint64(multiplier)
	bigDiv := new(big.Int).SetUint64(divisor)

	result := new(big.Int).Mul(bigX, bigMul)
	result.Div(result, bigDiv)

	if !result.IsUint64() {
		return 0, fmt.Errorf("计算结果溢出: (%d * %d) / %d", x, multiplier, divisor)
	}

	return result.Uint64(), nil
}

// ApplyBps 按基点比例缩放金额
//
// 计算 amount * bps / 10000，整数基点避免浮点误差
// （如 bps=30 表示 0.3%）。
func ApplyBps(amount uint64, bps uint32) (uint64, error) {
	return MulDivUint64(amount, uint64(bps), 10000)
}

// SaturatingAdd 饱和加法（溢出时钳制到上限）
//
// 用于有界分值的累加（如共鸣值提升，上限由调用方给定）。
func SaturatingAdd(x, delta, max uint64) uint64 {
	sum := x + delta
	if sum < x || sum > max {
		return max
	}
	return sum
}

// SaturatingSub 饱和减法（下溢时钳制到0）
func SaturatingSub(x, delta uint64) uint64 {
	if delta >= x {
		return 0
	}
	return x - delta
}

// IntegerSqrt 整数平方根（向下取整）
//
// 用于平方根投票权重变换。采用big.Int的Sqrt保证任意uint64输入正确。
func IntegerSqrt(x uint64) uint64 {
	if x < 2 {
		return x
	}
	r := new(big.Int).Sqrt(new(big.Int).SetUint64(x))
	return r.Uint64()
}
