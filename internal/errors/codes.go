// Package errors 提供解析诊断的错误码和格式化输出
package errors

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误类别
// ============================================================================

// Kind 错误类别，对应错误分类的三个组
type Kind int

const (
	KindLex    Kind = iota // 词法错误：非法字符、未闭合字符串、无效转义
	KindNumber             // 数字格式错误：前导零、缺少数字、无效数字、溢出
	KindSyntax             // 语法错误：意外 token、缺少期望 token、畸形推导式
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindNumber:
		return "number format error"
	case KindSyntax:
		return "syntax error"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误码
// ============================================================================

const (
	// E0001-E0099: 词法错误
	E0001 = "E0001" // 意外的字符
	E0002 = "E0002" // 未闭合的字符串
	E0003 = "E0003" // 无效的转义序列
	E0004 = "E0004" // 反缩进不匹配

	// E0100-E0199: 数字字面量错误
	E0100 = "E0100" // 十进制前导零
	E0101 = "E0101" // 进制前缀后缺少数字
	E0102 = "E0102" // 进制内无效数字
	E0103 = "E0103" // 32位整数溢出
	E0104 = "E0104" // 数字后紧跟标识符字符

	// E0200-E0299: 语法错误
	E0200 = "E0200" // 意外的 token
	E0201 = "E0201" // 缺少期望的 token
	E0202 = "E0202" // 期望表达式
	E0203 = "E0203" // 比较运算符链式使用
	E0204 = "E0204" // 表达式嵌套过深
	E0205 = "E0205" // 无效的赋值目标
	E0206 = "E0206" // 表达式后有多余 token
	E0207 = "E0207" // 期望缩进块
	E0208 = "E0208" // 位置实参在关键字实参之后
	E0209 = "E0209" // 无默认值形参在有默认值形参之后
)

// KindOf 根据错误码返回错误类别
//
// 错误码按百位分组：E00xx 词法，E01xx 数字，E02xx 语法。
func KindOf(code string) Kind {
	if len(code) >= 3 {
		switch code[:3] {
		case "E00":
			return KindLex
		case "E01":
			return KindNumber
		}
	}
	return KindSyntax
}
