package utils

import (
	"runtime/debug"

	"yqhp/lms-tools/common/logger"

	"go.uber.org/zap"
)

// SafeGoWithName 启动一个带名称的 goroutine，捕获 panic 并记录日志
// 使用方式: utils.SafeGoWithName("flow-run", func() { ... }, nil)
func SafeGoWithName(name string, fn func(), onPanic func(r any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panic recovered",
					zap.String("name", name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}
