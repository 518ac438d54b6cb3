package lsp

import (
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"

	"github.com/tangzhangming/skylark"
)

// diagnosticsFor 把解析错误转换为 LSP 诊断列表
//
// LSP 的行列号从 0 开始，解析器的从 1 开始。没有错误时
// 返回空切片而不是 nil：客户端靠空列表清除旧诊断。
func diagnosticsFor(err error) []protocol.Diagnostic {
	diags := make([]protocol.Diagnostic, 0, 4)

	for _, e := range multierr.Errors(err) {
		pe, ok := e.(*skylark.ParseError)
		if !ok {
			continue
		}

		line := pe.Position.Line - 1
		if line < 0 {
			line = 0
		}
		col := pe.Position.Column - 1
		if col < 0 {
			col = 0
		}

		start := protocol.Position{Line: uint32(line), Character: uint32(col)}
		end := protocol.Position{Line: uint32(line), Character: uint32(col + 1)}

		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: protocol.DiagnosticSeverityError,
			Code:     pe.Code,
			Source:   "skylark",
			Message:  pe.Message,
		})
	}

	return diags
}
