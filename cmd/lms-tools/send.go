package main

import (
	"fmt"
	"os"

	"yqhp/lms-tools/common/utils"
	"yqhp/lms-tools/internal/logic"

	"github.com/spf13/cobra"
)

var (
	// send 命令的 flags
	sendEnv    string
	sendDmn    string
	sendUser   string
	sendPass   string
	sendMethod string
	sendData   string
	sendFile   string
	sendSelect string
)

// sendCmd 发送单个请求
var sendCmd = &cobra.Command{
	Use:   "send <path>",
	Short: "发送单个 LMS 请求",
	Example: `  # 查询大纲
  lms-tools send --env staging /syllabus/search --data '{"status":["approved"]}'

  # 以 root 身份请求另一个域名
  lms-tools send --env staging --dmn demo --user root /domain/groups

  # 只输出匹配的字段
  lms-tools send --env staging /syllabus/search --select '$.result[*].iid'`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendEnv, "env", "e", "", "环境 ID")
	sendCmd.Flags().StringVar(&sendDmn, "dmn", "", "域名，默认使用环境域名")
	sendCmd.Flags().StringVarP(&sendUser, "user", "u", "", "登录用户，默认使用环境用户")
	sendCmd.Flags().StringVarP(&sendPass, "pass", "p", "", "登录密码")
	sendCmd.Flags().StringVarP(&sendMethod, "method", "X", "POST", "HTTP 方法")
	sendCmd.Flags().StringVarP(&sendData, "data", "d", "", "JSON 请求参数")
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "从文件读取 JSON 请求参数")
	sendCmd.Flags().StringVar(&sendSelect, "select", "", "JSONPath 表达式，只输出响应中匹配的部分")
	_ = sendCmd.MarkFlagRequired("env")
}

func runSend(cmd *cobra.Command, args []string) error {
	payload, err := readJSONObject(sendData, sendFile)
	if err != nil {
		return err
	}

	_, cleanup, err := bootstrap(cmd.Context())
	defer cleanup()
	if err != nil {
		return err
	}

	resp, err := logic.NewApiRunnerLogic(cmd.Context()).Send(&logic.SendReq{
		EnvironmentID: sendEnv,
		Dmn:           sendDmn,
		UserCode:      sendUser,
		Pass:          sendPass,
		Path:          args[0],
		Method:        sendMethod,
		Payload:       payload,
		Select:        sendSelect,
	})
	if err != nil {
		return err
	}
	if err := printJSON(cmd, resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("请求失败: %s", resp.Error)
	}
	return nil
}

// readJSONObject 读取 --data 或 --file 中的 JSON 对象，二者都为空时返回 nil
func readJSONObject(data, file string) (map[string]any, error) {
	raw, err := readRaw(data, file)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var obj map[string]any
	if err := utils.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("解析 JSON 参数失败: %w", err)
	}
	return obj, nil
}

func readRaw(data, file string) ([]byte, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("读取参数文件失败: %w", err)
		}
		return raw, nil
	}
	return []byte(data), nil
}
