// Package main 提供 lms-tools 命令行入口
package main

func main() {
	Execute()
}
