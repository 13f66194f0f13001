package main

import (
	"context"
	"os/signal"
	"syscall"

	"yqhp/lms-tools/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd 启动 HTTP 服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, cleanup, err := bootstrap(ctx)
		defer cleanup()
		if err != nil {
			return err
		}
		return server.Run(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
