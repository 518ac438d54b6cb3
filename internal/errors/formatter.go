package errors

import (
	"fmt"
	"strings"
)

// ============================================================================
// 解析诊断
// ============================================================================

// Diagnostic 一条解析诊断
type Diagnostic struct {
	Code      string // 错误码 (E0100)
	Level     Level  // 错误级别
	Message   string // 主消息
	File      string // 文件路径
	Line      int    // 行号（1-based）
	Column    int    // 列号（1-based）
	EndColumn int    // 结束列（0 表示未知，按 1 个字符标注）
	Notes     []string
}

// Kind 返回诊断的错误类别
func (d *Diagnostic) Kind() Kind {
	return KindOf(d.Code)
}

// Error 实现 error 接口
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Message)
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器，输出 caret 风格的标注
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     true,
		ShowSource: true,
		TabWidth:   4,
	}
}

// Format 格式化一条诊断
//
// 输出形如：
//
//	error[E0100]: decimal literal cannot have a leading zero: 01
//	 --> config.sky:3:9
//	  |
//	3 | count = 01
//	  |         ^^
func (f *Formatter) Format(d *Diagnostic, sourceLines []string) string {
	var sb strings.Builder

	// 错误头: error[E0100]: 消息
	levelStr := f.colorize(d.Level.String(), f.levelColor(d.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", d.Code), f.levelColor(d.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, d.Message))

	// 位置: --> file.sky:5:12
	arrow := f.colorize("-->", ColorCyan)
	location := f.colorize(fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column), ColorCyan)
	sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))

	// 源代码行与 caret 标注
	if f.ShowSource && d.Line > 0 && d.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceLine(sourceLines[d.Line-1], d.Line, d.Column, d.EndColumn))
	}

	// 附加说明
	for _, note := range d.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// formatSourceLine 格式化出错行和下划线标注
func (f *Formatter) formatSourceLine(line string, lineNum, startCol, endCol int) string {
	var sb strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", lineNum))
	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	lineNumStr := f.colorize(fmt.Sprintf("%*d", lineNumWidth, lineNum), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNumStr, pipe, f.expandTabs(line)))

	if endCol == 0 {
		endCol = startCol + 1
	}
	length := endCol - startCol
	if length < 1 {
		length = 1
	}

	// 计算实际的列位置（考虑 Tab）
	actualCol := f.calculateActualColumn(line, startCol)

	underline := strings.Repeat(" ", lineNumWidth+3+actualCol-1) +
		f.colorize(strings.Repeat("^", length), ColorRed)
	sb.WriteString(underline + "\n")

	return sb.String()
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算实际列位置（考虑 Tab）
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual + 1
}

// levelColor 返回级别对应的颜色
func (f *Formatter) levelColor(l Level) Color {
	switch l {
	case LevelError:
		return ColorBoldRed
	case LevelWarning:
		return ColorBoldYellow
	default:
		return ColorBoldCyan
	}
}

// colorize 为文本着色
func (f *Formatter) colorize(s string, c Color) string {
	if !f.Colors || !colorsEnabled {
		return s
	}
	return ansiCodes[c] + s + ansiCodes[ColorReset]
}
