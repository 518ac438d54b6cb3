package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/skylark"
	"github.com/tangzhangming/skylark/internal/errors"
	"github.com/tangzhangming/skylark/internal/i18n"
	"github.com/tangzhangming/skylark/internal/pkg"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "显示版本信息")
	exprSrc := flag.String("e", "", "解析单个表达式并打印语法树")
	lang := flag.String("lang", "", "错误信息语言 (en/zh)，默认取 skylark.toml 的配置")
	noColor := flag.Bool("no-color", false, "关闭彩色输出")

	flag.Parse()

	if *showVersion {
		fmt.Printf("skylark v%s\n", version)
		os.Exit(0)
	}

	configureLanguage(*lang)

	formatter := errors.NewFormatter()
	if *noColor {
		formatter.Colors = false
	}

	// 表达式模式：解析并回显语法树
	if *exprSrc != "" {
		expr, err := skylark.ParseExpression(*exprSrc)
		if err != nil {
			printErrors(formatter, *exprSrc, err)
			os.Exit(1)
		}
		fmt.Println(expr.String())
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		printUsage()
		os.Exit(2)
	}

	failed := false
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skylark: %v\n", err)
			failed = true
			continue
		}

		src := string(data)
		if _, err := skylark.ParseModule(path, src); err != nil {
			printErrors(formatter, src, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// configureLanguage 决定错误信息语言
//
// 命令行参数优先；没有给参数时查当前目录向上的 skylark.toml。
func configureLanguage(lang string) {
	if lang != "" {
		i18n.SetLanguageFromString(lang)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	if config, err := pkg.FindConfig(wd); err == nil {
		i18n.SetLanguageFromString(config.Parser.Language)
	}
}

// printErrors 按诊断格式输出全部解析错误
func printErrors(formatter *errors.Formatter, src string, err error) {
	lines := strings.Split(src, "\n")

	for _, e := range multierr.Errors(err) {
		pe, ok := e.(*skylark.ParseError)
		if !ok {
			fmt.Fprintln(os.Stderr, e)
			continue
		}

		d := &errors.Diagnostic{
			Code:    pe.Code,
			Level:   errors.LevelError,
			Message: pe.Message,
			File:    pe.Position.Filename,
			Line:    pe.Position.Line,
			Column:  pe.Position.Column,
		}
		fmt.Fprint(os.Stderr, formatter.Format(d, lines))
	}
}

func printUsage() {
	fmt.Println("skylark - 语法检查器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  skylark [options] <file>...")
	fmt.Println("  skylark -e <expression>")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version       显示版本信息")
	fmt.Println("  -e <expr>       解析单个表达式并打印语法树")
	fmt.Println("  --lang <code>   错误信息语言 (en/zh)")
	fmt.Println("  --no-color      关闭彩色输出")
}
