package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// 构建期通过 -ldflags "-X main.version=... -X main.commit=..." 注入
var (
	version = "dev"
	commit  = "unknown"
)

// versionCmd 输出版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "输出版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unitledger %s (commit %s, %s)\n", version, commit, runtime.Version())
	},
}
