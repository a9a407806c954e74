package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile string // 配置文件路径
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "unitledger",
	Short: "UnitLedger 账本与治理节点",
	Long: `UnitLedger - 账户账本、单元状态机与治理参数的单进程节点

核心能力:
- 账户余额与单元所有权（铸造、销毁、转移、守恒）
- 单元生命周期（衰减、进化、纠缠、锁定、质押、熔合）
- 规则与提案治理（触发-认领、提案-投票-执行、委托）

状态快照与事件日志持久化在本地BadgerDB，退出时自动落盘。`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// 全局标志
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "配置文件路径 (JSON, 省略则使用默认配置)")

	// 添加子命令
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)
}
