package lsp

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 语言服务器日志
//
// 日志输出到 stderr 或指定文件，绝不能写 stdout——那是
// 协议通道。调试日志通过环境变量 SKYLARK_LSP_DEBUG 打开，
// 默认只输出错误。
type Logger struct {
	sugar   *zap.SugaredLogger
	file    *os.File
	enabled bool
}

// NewLogger 创建日志记录器
//
// logPath 为空时输出到 stderr。
func NewLogger(logPath string) *Logger {
	debug := os.Getenv("SKYLARK_LSP_DEBUG")
	enabled := debug == "1" || debug == "true" || debug == "on"

	level := zapcore.ErrorLevel
	if enabled {
		level = zapcore.DebugLevel
	}

	var file *os.File
	sink := zapcore.AddSync(os.Stderr)
	if enabled && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// 打开文件失败继续用 stderr
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		} else {
			file = f
			sink = zapcore.AddSync(f)
		}
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)

	return &Logger{
		sugar:   zap.New(core).Sugar(),
		file:    file,
		enabled: enabled,
	}
}

// Close 刷新并关闭日志
func (l *Logger) Close() {
	l.sugar.Sync()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// Debug 记录调试信息（可被关闭）
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info 记录一般信息（可被关闭）
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error 记录错误信息（始终输出）
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// IsEnabled 返回调试日志是否启用
func (l *Logger) IsEnabled() bool {
	return l.enabled
}
