package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weisyn/unitledger/internal/app"
)

// runCmd 启动节点
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "启动节点并阻塞至收到退出信号",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("启动 UnitLedger 节点...")
		if globalFlags.ConfigFile != "" {
			fmt.Printf("配置来源: %s\n", globalFlags.ConfigFile)
		} else {
			fmt.Println("配置来源: 内置默认配置")
		}

		node := app.New(app.WithConfigFile(globalFlags.ConfigFile))
		return node.Run(context.Background())
	},
}
