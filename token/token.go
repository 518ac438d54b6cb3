package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 布局标记（NEWLINE, INDENT, DEDENT — 缩进敏感语法）
// 3. 字面量（标识符、整数、字符串）
// 4. 运算符（算术、比较、位运算、赋值）
// 5. 分隔符（括号、逗号、冒号等）
// 6. 关键字（逻辑、控制流、声明）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 布局标记
	// ----------------------------------------------------------
	// 语法是缩进敏感的：词法器在每个逻辑行末尾产生 NEWLINE，
	// 在缩进层级变化处产生 INDENT/DEDENT。括号内部不产生布局标记。
	NEWLINE // 逻辑行结束
	INDENT  // 缩进层级增加
	DEDENT  // 缩进层级减少

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符
	INT    // 整数字面量 (32位有符号)
	STRING // 字符串字面量

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	SLASH_SLASH // // (整除)
	PERCENT     // %

	// ----------------------------------------------------------
	// 位运算符
	// ----------------------------------------------------------
	BIT_AND // &
	BIT_OR  // |

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 赋值运算符
	// ----------------------------------------------------------
	ASSIGN             // =
	PLUS_ASSIGN        // +=
	MINUS_ASSIGN       // -=
	STAR_ASSIGN        // *=
	SLASH_ASSIGN       // /=
	SLASH_SLASH_ASSIGN // //=
	PERCENT_ASSIGN     // %=

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	COLON     // :
	SEMICOLON // ;

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	AND         // and
	OR          // or
	NOT         // not
	IN          // in
	IF          // if
	ELIF        // elif
	ELSE        // else
	FOR         // for
	DEF         // def
	RETURN      // return
	BREAK       // break
	CONTINUE    // continue
	PASS        // pass
	LOAD        // load
	keyword_end // 关键字结束标记（不是实际 token）

	// ----------------------------------------------------------
	// 合成运算符
	// ----------------------------------------------------------
	// NOT_IN 不由词法器产生：源代码中是 `not` `in` 两个 token，
	// 语法分析器在比较层级将二者合并为一个运算符。
	NOT_IN // not in
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	// 特殊标记
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	// 布局标记
	NEWLINE: "NEWLINE",
	INDENT:  "INDENT",
	DEDENT:  "DEDENT",

	// 字面量
	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",

	// 算术运算符
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
	SLASH_SLASH: "//",
	PERCENT:     "%",

	// 位运算符
	BIT_AND: "&",
	BIT_OR:  "|",

	// 比较运算符
	EQ: "==",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	// 赋值运算符
	ASSIGN:             "=",
	PLUS_ASSIGN:        "+=",
	MINUS_ASSIGN:       "-=",
	STAR_ASSIGN:        "*=",
	SLASH_ASSIGN:       "/=",
	SLASH_SLASH_ASSIGN: "//=",
	PERCENT_ASSIGN:     "%=",

	// 分隔符
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	COLON:     ":",
	SEMICOLON: ";",

	// 关键字
	AND:      "and",
	OR:       "or",
	NOT:      "not",
	IN:       "in",
	IF:       "if",
	ELIF:     "elif",
	ELSE:     "else",
	FOR:      "for",
	DEF:      "def",
	RETURN:   "return",
	BREAK:    "break",
	CONTINUE: "continue",
	PASS:     "pass",
	LOAD:     "load",

	// 合成运算符
	NOT_IN: "not in",
}

// ============================================================================
// 关键字查找表
// ============================================================================
//
// keywords 将关键字字符串映射到对应的 TokenType。
// 用于在词法分析时区分标识符和关键字。
//
// 注意：True / False / None 不是本方言的关键字，它们按普通标识符
// 处理，语义由下游求值器决定（AST 没有布尔/空值操作数形式）。
//
// ============================================================================

var keywords = map[string]TokenType{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"in":       IN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"for":      FOR,
	"def":      DEF,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"load":     LOAD,
}

// ============================================================================
// 关键字查找函数
// ============================================================================

// LookupIdent 查找标识符是否为关键字
//
// 优化说明:
//   - 对于短关键字（2-3字符），使用 switch 语句直接匹配
//   - 短字符串的 switch 比 map 查找更快，因为避免了哈希计算
//   - 较长的关键字仍使用 map 查找
//
// 参数:
//   - ident: 标识符字符串
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 IDENT
func LookupIdent(ident string) TokenType {
	switch len(ident) {
	case 2:
		// 两字符关键字：or, in, if
		switch ident {
		case "or":
			return OR
		case "in":
			return IN
		case "if":
			return IF
		}

	case 3:
		// 三字符关键字：and, not, for, def
		switch ident {
		case "and":
			return AND
		case "not":
			return NOT
		case "for":
			return FOR
		case "def":
			return DEF
		}
	}

	// 较长的关键字使用 map 查找
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束）
//
// 用于错误报告和代码高亮，可以精确定位问题代码的起止位置。
type Span struct {
	Start Position // 开始位置
	End   Position // 结束位置
}

// NewSpan 创建新的 Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// SpanFromToken 从 Token 创建 Span
//
// 计算 Token 的结束位置，创建覆盖整个 Token 的 Span。
func SpanFromToken(t Token) Span {
	endPos := t.Pos
	endPos.Column += len(t.Literal)
	endPos.Offset += len(t.Literal)
	return Span{Start: t.Pos, End: endPos}
}

// Length 返回 Span 的长度（仅在同一行有效）
func (s Span) Length() int {
	if s.Start.Line == s.End.Line {
		return s.End.Column - s.Start.Column
	}
	return 1 // 多行时返回 1
}

// String 返回 Span 的字符串表示
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是词法分析的产物，包含：
// - Type: token 类型（如 IDENT, INT, IF 等）
// - Literal: 原始字面量文本
// - Value: 解析后的值（INT 为 int32，STRING 为 []byte）
// - Pos: 在源代码中的位置
//
// Token 一经产生即不可变。
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值 (用于数字、字符串)
	Pos     Position    // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字和字符串字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
