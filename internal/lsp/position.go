package lsp

import (
	"strings"

	"go.lsp.dev/uri"
)

// SplitLines 把文档内容按行拆开
//
// 去掉行尾的 \r，保证 Windows 换行的文档也能按列定位。
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// uriToPath 把文档 URI 转换为文件系统路径
//
// 非 file 协议的 URI 转换会 panic，此时退回原始字符串，
// 解析只拿它做错误报告。
func uriToPath(docURI string) (path string) {
	path = docURI
	defer func() { recover() }()
	path = uri.New(docURI).Filename()
	return path
}
