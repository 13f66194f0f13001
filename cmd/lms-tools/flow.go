package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"yqhp/lms-tools/internal/flow"
	"yqhp/lms-tools/internal/svc"

	"github.com/spf13/cobra"
)

var (
	// flow 命令的 flags
	flowEnv         string
	flowDmn         string
	flowUser        string
	flowPass        string
	flowParams      string
	flowParamsFile  string
	flowConcurrency int
	flowHistory     bool
)

// flowCmd 执行批量流程
var flowCmd = &cobra.Command{
	Use:   "flow <kind>",
	Short: "执行批量流程",
	Long: fmt.Sprintf(`先查询工作集，再逐项执行变更。单项失败不会中断流程，
Ctrl+C 在当前项完成后停止。

支持的流程: %s`, strings.Join(flow.Kinds(), ", ")),
	Example: `  # 把待审核的大纲全部改为 approved
  lms-tools flow syllabus-status --env staging --params '{"filter":{"status":["queued"]},"targetStatus":"approved"}'

  # 合并用户学习数据
  lms-tools flow user-merge --env staging --params-file pairs.json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: flow.Kinds(),
	RunE:      runFlow,
}

func init() {
	rootCmd.AddCommand(flowCmd)

	flowCmd.Flags().StringVarP(&flowEnv, "env", "e", "", "环境 ID")
	flowCmd.Flags().StringVar(&flowDmn, "dmn", "", "域名，默认使用环境域名")
	flowCmd.Flags().StringVarP(&flowUser, "user", "u", "", "登录用户，默认使用环境用户")
	flowCmd.Flags().StringVarP(&flowPass, "pass", "p", "", "登录密码")
	flowCmd.Flags().StringVar(&flowParams, "params", "", "JSON 流程参数")
	flowCmd.Flags().StringVarP(&flowParamsFile, "params-file", "f", "", "从文件读取 JSON 流程参数")
	flowCmd.Flags().IntVarP(&flowConcurrency, "concurrency", "c", 0, "同时处理的项数 (覆盖配置)")
	flowCmd.Flags().BoolVar(&flowHistory, "history", false, "输出完整请求记录")
	_ = flowCmd.MarkFlagRequired("env")
}

func runFlow(cmd *cobra.Command, args []string) error {
	params, err := readRaw(flowParams, flowParamsFile)
	if err != nil {
		return err
	}

	_, cleanup, err := bootstrap(cmd.Context())
	defer cleanup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.ErrOrStderr()
	opts := []flow.RunnerOption{
		flow.WithObserver(func(s flow.Snapshot) {
			if s.State == flow.StateProcessing && s.Progress.Total > 0 {
				fmt.Fprintf(out, "\r[%s] %d/%d  失败 %d", s.Kind, s.Progress.Processed, s.Progress.Total, len(s.Progress.Failed))
			}
		}),
	}
	if flowConcurrency > 0 {
		opts = append(opts, flow.WithConcurrency(flowConcurrency))
	}

	run, err := svc.Ctx.Flows.RunSync(ctx, args[0], flow.Props{
		EnvironmentID: flowEnv,
		Dmn:           flowDmn,
		UserCode:      flowUser,
		Pass:          flowPass,
	}, params, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	snap := run.Snapshot
	if snap.Summary == nil {
		if !flowHistory {
			snap.History = nil
		}
		_ = printJSON(cmd, snap)
		return fmt.Errorf("流程未执行: %s", snap.Error)
	}

	for _, e := range snap.Summary.Errors {
		fmt.Fprintln(out, e.String())
	}
	if flowHistory {
		if err := printJSON(cmd, snap.History); err != nil {
			return err
		}
	}
	if err := printJSON(cmd, snap.Summary); err != nil {
		return err
	}
	if snap.Summary.Failed > 0 {
		return fmt.Errorf("%d/%d 项失败", snap.Summary.Failed, snap.Summary.Total)
	}
	return nil
}
