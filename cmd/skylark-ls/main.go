package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tangzhangming/skylark/internal/lsp"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")
	logFile := flag.String("log", "", "日志文件路径（设置环境变量 SKYLARK_LSP_DEBUG=1 启用调试日志）")

	flag.Parse()

	if *showVersion {
		fmt.Printf("skylark language server v%s\n", version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	server := lsp.NewServer(*logFile)
	ctx := context.Background()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "language server error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("skylark language server - 语法诊断 LSP 服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  skylark-ls [options]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version    显示版本信息")
	fmt.Println("  --help       显示帮助信息")
	fmt.Println("  --log <file> 日志文件路径")
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  SKYLARK_LSP_DEBUG=1  启用调试日志（默认关闭）")
	fmt.Println()
	fmt.Println("服务器通过标准输入输出 (stdio) 与编辑器通信，在文档")
	fmt.Println("打开和修改时解析内容并推送语法诊断。工作区根目录的")
	fmt.Println("skylark.toml 控制诊断语言和文件大小上限。")
}
