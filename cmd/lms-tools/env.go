package main

import (
	"fmt"
	"text/tabwriter"

	"yqhp/lms-tools/internal/logic"

	"github.com/spf13/cobra"
)

var envJSON bool

// envCmd 环境管理
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "查看 LMS 环境",
}

// envListCmd 列出环境
var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出已配置的环境",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cleanup, err := bootstrap(cmd.Context())
		defer cleanup()
		if err != nil {
			return err
		}

		envs, err := logic.NewEnvironmentLogic(cmd.Context()).List()
		if err != nil {
			return err
		}
		if envJSON {
			return printJSON(cmd, envs)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDOMAIN\tHOST\tUSER")
		for _, env := range envs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", env.ID, env.Name, env.Domain, env.Host, env.UserCode)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envListCmd)
	envListCmd.Flags().BoolVar(&envJSON, "json", false, "JSON 输出")
}
