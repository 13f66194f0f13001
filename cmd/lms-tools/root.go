package main

import (
	"context"
	"fmt"
	"os"

	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/config"
	"yqhp/lms-tools/internal/server"

	"github.com/spf13/cobra"
)

// Version 是当前版本号
const Version = "0.1.0"

var (
	// 全局配置
	cfgFile string
	debug   bool
)

// rootCmd 是根命令
var rootCmd = &cobra.Command{
	Use:   "lms-tools",
	Short: "LMS 运维工具",
	Long: `lms-tools 通过 LMS 的后台接口执行单个请求或批量流程，
自动登录并记录每一次请求与响应。`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// 全局 flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yml", "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "启用调试日志")

	// 禁用默认的 completion 命令
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// bootstrap 加载配置并初始化服务上下文
func bootstrap(ctx context.Context) (*config.Config, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, func() {}, fmt.Errorf("加载配置失败: %w", err)
	}
	server.InitLogger(cfg, debug)

	cleanup, err := server.Bootstrap(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	return cfg, cleanup, nil
}

// printJSON 以缩进 JSON 输出到标准输出
func printJSON(cmd *cobra.Command, v any) error {
	out, err := utils.ToJSONPretty(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
