package lexer

import (
	"fmt"
	"strconv"

	"github.com/tangzhangming/skylark/internal/errors"
	"github.com/tangzhangming/skylark/internal/i18n"
	"github.com/tangzhangming/skylark/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将源代码字符串转换为 Token 序列。
//
// 语法是缩进敏感的（Python 风格）：
// 1. 每个逻辑行末尾产生 NEWLINE
// 2. 缩进层级增减产生 INDENT / DEDENT（内部维护缩进栈）
// 3. 括号 ( [ { 内部自动续行，不产生布局标记
// 4. 空行和纯注释行不产生任何 token
//
// Token 按需产生：NextToken 是惰性的单步接口，ScanTokens 是
// 一次扫完的便捷接口。重新扫描同一输入只需重新构造 Lexer。
//
// ============================================================================

// tabWidth Tab 在缩进测量中按 8 列对齐展开
const tabWidth = 8

// Lexer 词法分析器结构体
type Lexer struct {
	source   string // 源代码字符串
	filename string // 源文件名（用于错误报告）

	start   int // 当前 Token 的起始位置（字节偏移）
	current int // 当前扫描位置（字节偏移）
	line    int // 当前行号（从1开始）
	column  int // 当前列号（从1开始）

	indents     []int         // 缩进栈（栈底恒为 0）
	depth       int           // 括号嵌套深度（>0 时隐式续行）
	pending     []token.Token // 已生成待弹出的布局 token（DEDENT 序列）
	atLineStart bool          // 是否位于逻辑行起始（需要测量缩进）

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Code    string         // 错误码 (E00xx / E01xx)
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Kind 返回错误类别（词法 / 数字格式）
func (e Error) Kind() errors.Kind {
	return errors.KindOf(e.Code)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告）
func New(source, filename string) *Lexer {
	return &Lexer{
		source:      source,
		filename:    filename,
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 一次性扫描整个源代码并返回 Token 序列。
// 最后一个 Token 总是 EOF，表示文件结束。
func (l *Lexer) ScanTokens() []token.Token {
	// 预估 token 数量：源码长度 / 5 是一个经验值
	tokens := make([]token.Token, 0, len(l.source)/5+16)

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// NextToken 产生下一个 token（按需扫描）
//
// 文件扫完后持续返回 EOF。布局 token 的产生顺序：
// 最后一个逻辑行的 NEWLINE → 剩余缩进层级的 DEDENT 序列 → EOF。
func (l *Lexer) NextToken() token.Token {
	for {
		// 先弹出排队的布局 token（DEDENT 序列）
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}

		// 逻辑行起始：测量缩进（括号内不处理缩进）
		if l.atLineStart && l.depth == 0 {
			if tok, ok := l.scanIndentation(); ok {
				return tok
			}
		}

		l.skipSpaces()
		l.start = l.current

		// 文件结束：补发 NEWLINE 和 DEDENT
		if l.isAtEnd() {
			if !l.atLineStart {
				l.atLineStart = true
				return l.makeToken(token.NEWLINE)
			}
			if len(l.indents) > 1 {
				l.indents = l.indents[:len(l.indents)-1]
				return l.makeToken(token.DEDENT)
			}
			return l.makeToken(token.EOF)
		}

		ch := l.advance()

		switch ch {

		// ----------------------------------------------------------
		// 换行与注释
		// ----------------------------------------------------------
		case '\n':
			if l.depth > 0 {
				l.newLine()
				continue // 括号内隐式续行
			}
			l.atLineStart = true
			tok := l.makeToken(token.NEWLINE)
			l.newLine()
			return tok

		case '#':
			// 注释到行尾，不产生 token
			for !l.isAtEnd() && l.peekByte() != '\n' {
				l.advanceByte()
			}
			continue

		// ----------------------------------------------------------
		// 括号（维护嵌套深度）
		// ----------------------------------------------------------
		case '(':
			l.depth++
			return l.makeToken(token.LPAREN)
		case ')':
			if l.depth > 0 {
				l.depth--
			}
			return l.makeToken(token.RPAREN)
		case '[':
			l.depth++
			return l.makeToken(token.LBRACKET)
		case ']':
			if l.depth > 0 {
				l.depth--
			}
			return l.makeToken(token.RBRACKET)
		case '{':
			l.depth++
			return l.makeToken(token.LBRACE)
		case '}':
			if l.depth > 0 {
				l.depth--
			}
			return l.makeToken(token.RBRACE)

		// ----------------------------------------------------------
		// 单字符分隔符
		// ----------------------------------------------------------
		case ',':
			return l.makeToken(token.COMMA)
		case '.':
			return l.makeToken(token.DOT)
		case ':':
			return l.makeToken(token.COLON)
		case ';':
			return l.makeToken(token.SEMICOLON)

		// ----------------------------------------------------------
		// 运算符（可能是多字符）
		// ----------------------------------------------------------
		case '+':
			if l.match('=') {
				return l.makeToken(token.PLUS_ASSIGN)
			}
			return l.makeToken(token.PLUS)

		case '-':
			if l.match('=') {
				return l.makeToken(token.MINUS_ASSIGN)
			}
			return l.makeToken(token.MINUS)

		case '*':
			if l.match('=') {
				return l.makeToken(token.STAR_ASSIGN)
			}
			return l.makeToken(token.STAR)

		case '/':
			// / 或 // 或 /= 或 //=
			if l.match('/') {
				if l.match('=') {
					return l.makeToken(token.SLASH_SLASH_ASSIGN)
				}
				return l.makeToken(token.SLASH_SLASH)
			}
			if l.match('=') {
				return l.makeToken(token.SLASH_ASSIGN)
			}
			return l.makeToken(token.SLASH)

		case '%':
			if l.match('=') {
				return l.makeToken(token.PERCENT_ASSIGN)
			}
			return l.makeToken(token.PERCENT)

		case '&':
			return l.makeToken(token.BIT_AND)
		case '|':
			return l.makeToken(token.BIT_OR)

		case '=':
			if l.match('=') {
				return l.makeToken(token.EQ)
			}
			return l.makeToken(token.ASSIGN)

		case '!':
			// 本方言没有单独的 !，只有 !=
			if l.match('=') {
				return l.makeToken(token.NE)
			}
			return l.errorToken(errors.E0001, i18n.T(i18n.ErrUnexpectedChar, ch))

		case '<':
			if l.match('=') {
				return l.makeToken(token.LE)
			}
			return l.makeToken(token.LT)

		case '>':
			if l.match('=') {
				return l.makeToken(token.GE)
			}
			return l.makeToken(token.GT)

		// ----------------------------------------------------------
		// 字符串字面量
		// ----------------------------------------------------------
		case '"':
			return l.scanString('"')
		case '\'':
			return l.scanString('\'')

		// ----------------------------------------------------------
		// 默认：数字、标识符或非法字符
		// ----------------------------------------------------------
		default:
			if isDigit(ch) {
				return l.scanNumber()
			}
			if isAlpha(ch) {
				return l.scanIdentifier()
			}
			return l.errorToken(errors.E0001, i18n.T(i18n.ErrUnexpectedChar, ch))
		}
	}
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 缩进处理
// ============================================================================

// scanIndentation 在逻辑行起始测量缩进
//
// 跳过空行和纯注释行（它们不影响缩进层级，也不产生 token）。
// 缩进增加产生 INDENT；减少产生一个或多个 DEDENT（多余的排入
// pending 队列）；与栈中任何层级都不匹配是词法错误。
//
// 返回 (token, true) 表示产生了布局 token；(zero, false) 表示
// 缩进不变或已到文件尾，主循环继续扫描普通 token。
func (l *Lexer) scanIndentation() (token.Token, bool) {
	for {
		// 测量本行缩进列数（Tab 对齐到 8 的倍数）
		col := 0
		for !l.isAtEnd() {
			switch l.peekByte() {
			case ' ':
				col++
				l.advanceByte()
			case '\t':
				col += tabWidth - col%tabWidth
				l.advanceByte()
			case '\r':
				l.advanceByte()
			default:
				goto measured
			}
		}
	measured:
		if l.isAtEnd() {
			// 文件尾的处理交给主循环（NEWLINE/DEDENT/EOF 补发）
			return token.Token{}, false
		}

		switch l.peekByte() {
		case '\n':
			// 空行：消费换行，重新测量下一行
			l.advanceByte()
			l.newLine()
			continue
		case '#':
			// 纯注释行：跳到行尾，下一轮循环消费换行
			for !l.isAtEnd() && l.peekByte() != '\n' {
				l.advanceByte()
			}
			continue
		}

		// 本行有实际内容，结算缩进
		l.atLineStart = false
		l.start = l.current

		top := l.indents[len(l.indents)-1]
		if col > top {
			l.indents = append(l.indents, col)
			return l.makeToken(token.INDENT), true
		}

		for col < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.makeToken(token.DEDENT))
		}
		if col != l.indents[len(l.indents)-1] {
			return l.errorToken(errors.E0004, i18n.T(i18n.ErrInconsistentDedent)), true
		}
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, true
		}
		return token.Token{}, false
	}
}

// ============================================================================
// 空白字符处理
// ============================================================================

// skipSpaces 跳过行内空白（不含换行）
func (l *Lexer) skipSpaces() {
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
		default:
			return
		}
	}
}

// ============================================================================
// 整数字面量扫描
// ============================================================================

// scanNumber 扫描整数字面量
//
// 进制规则：
//   - 0o / 0O 前缀：八进制，前缀后至少一个 0-7
//   - 0x / 0X 前缀：十六进制，前缀后至少一个 0-9a-fA-F
//   - 1-9 开头：十进制，消费最长数字串
//   - 连续的 0（"0"、"00000"）：值为 0
//   - 0 后跟非零十进制数字（"01"）：前导零错误
//
// 值域为 32 位有符号整数，超界报溢出错误而不是静默截断。
// 数字串后直接跟标识符字符（"123abc"、"0x7g"）是词法错误，
// 因为标识符不允许以数字开头，这样的字元无法二义性消解。
func (l *Lexer) scanNumber() token.Token {
	first := l.source[l.start]

	if first == '0' {
		switch l.peekByte() {
		case 'o', 'O':
			l.advanceByte()
			return l.scanBasePrefixed(8)
		case 'x', 'X':
			l.advanceByte()
			return l.scanBasePrefixed(16)
		}

		// 0 开头的十进制：只允许全零
		zerosOnly := true
		for isDigit(l.peekByte()) {
			if l.peekByte() != '0' {
				zerosOnly = false
			}
			l.advanceByte()
		}
		literal := l.source[l.start:l.current]
		if isAlpha(l.peekByte()) {
			return l.numberThenIdentError()
		}
		if !zerosOnly {
			return l.errorToken(errors.E0100, i18n.T(i18n.ErrLeadingZero, literal))
		}
		return l.makeTokenWithValue(token.INT, int32(0))
	}

	// 十进制（首位 1-9）
	for isDigit(l.peekByte()) {
		l.advanceByte()
	}
	if isAlpha(l.peekByte()) {
		return l.numberThenIdentError()
	}

	literal := l.source[l.start:l.current]
	value, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return l.errorToken(errors.E0103, i18n.T(i18n.ErrIntegerOverflow, literal))
	}
	return l.makeTokenWithValue(token.INT, int32(value))
}

// scanBasePrefixed 扫描 0o/0x 前缀之后的部分
//
// 前缀已被消费。要求至少一个合法数字；溢出和后跟标识符
// 字符分别报独立的错误。
func (l *Lexer) scanBasePrefixed(base int) token.Token {
	var baseName string
	isBaseDigit := isOctalDigit
	if base == 16 {
		baseName = "hexadecimal"
		isBaseDigit = isHexDigit
	} else {
		baseName = "octal"
	}

	digitsStart := l.current
	for isBaseDigit(l.peekByte()) {
		l.advanceByte()
	}

	if l.current == digitsStart {
		// 前缀后一个合法数字都没有
		if b := l.peekByte(); isDigit(b) {
			// 八进制里的 8/9 等：进制内无效数字
			return l.errorToken(errors.E0102, i18n.T(i18n.ErrInvalidDigit, b, baseName))
		}
		return l.errorToken(errors.E0101, i18n.T(i18n.ErrMissingDigits, l.source[l.start:l.current]))
	}

	// 合法数字串后面不能直接跟数字或标识符字符
	if b := l.peekByte(); isDigit(b) {
		return l.errorToken(errors.E0102, i18n.T(i18n.ErrInvalidDigit, b, baseName))
	}
	if isAlpha(l.peekByte()) {
		return l.numberThenIdentError()
	}

	digits := l.source[digitsStart:l.current]
	value, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return l.errorToken(errors.E0103, i18n.T(i18n.ErrIntegerOverflow, l.source[l.start:l.current]))
	}
	return l.makeTokenWithValue(token.INT, int32(value))
}

// numberThenIdentError 报告数字后紧跟标识符字符的错误
//
// 连同后续的标识符字符一起消费掉，避免同一个字元再报一次错。
func (l *Lexer) numberThenIdentError() token.Token {
	for isAlphaNumeric(l.peekByte()) {
		l.advanceByte()
	}
	literal := l.source[l.start:l.current]
	return l.errorToken(errors.E0104, i18n.T(i18n.ErrNumberThenIdent, literal))
}

// ============================================================================
// 字符串字面量扫描
// ============================================================================

// scanString 扫描字符串字面量
//
// 支持单引号 'xxx' 和双引号 "xxx" 两种形式。
// 支持转义字符：\n \r \t \\ \' \" \0 \xHH
//
// 值是解码后的原始字节序列（[]byte）：\xHH 可以写出任意字节，
// 结果不保证是合法 UTF-8。字符串不能跨行。
func (l *Lexer) scanString(quote byte) token.Token {
	var buf []byte

	// 快速路径预判：无转义时可以整段切片
	hasEscape := false
	scanPos := l.current
	for scanPos < len(l.source) {
		b := l.source[scanPos]
		if b == '\\' {
			hasEscape = true
			break
		}
		if b == quote || b == '\n' {
			break
		}
		scanPos++
	}

	if !hasEscape {
		for l.current < scanPos {
			l.advanceByte()
		}
		if l.isAtEnd() || l.peekByte() == '\n' {
			return l.errorToken(errors.E0002, i18n.T(i18n.ErrUnterminatedString))
		}
		value := []byte(l.source[l.start+1 : l.current])
		l.advanceByte() // 跳过结束引号
		return l.makeTokenWithValue(token.STRING, value)
	}

	// 慢速路径：逐字节处理转义
	buf = make([]byte, 0, scanPos-l.current+16)
	for !l.isAtEnd() {
		b := l.peekByte()

		if b == quote {
			break
		}
		if b == '\n' {
			return l.errorToken(errors.E0002, i18n.T(i18n.ErrUnterminatedString))
		}

		if b == '\\' {
			l.advanceByte() // 跳过反斜杠
			if l.isAtEnd() {
				return l.errorToken(errors.E0002, i18n.T(i18n.ErrUnterminatedString))
			}

			escaped := l.peekByte()
			l.advanceByte()
			switch escaped {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case '\\':
				buf = append(buf, '\\')
			case '\'':
				buf = append(buf, '\'')
			case '"':
				buf = append(buf, '"')
			case '0':
				buf = append(buf, 0)
			case 'x':
				// \xHH：两位十六进制，可写出任意字节
				hi := l.peekByte()
				if !isHexDigit(hi) {
					return l.errorToken(errors.E0003, i18n.T(i18n.ErrInvalidEscape, escaped))
				}
				l.advanceByte()
				lo := l.peekByte()
				if !isHexDigit(lo) {
					return l.errorToken(errors.E0003, i18n.T(i18n.ErrInvalidEscape, escaped))
				}
				l.advanceByte()
				buf = append(buf, hexValue(hi)<<4|hexValue(lo))
			default:
				return l.errorToken(errors.E0003, i18n.T(i18n.ErrInvalidEscape, escaped))
			}
		} else {
			buf = append(buf, b)
			l.advanceByte()
		}
	}

	if l.isAtEnd() {
		return l.errorToken(errors.E0002, i18n.T(i18n.ErrUnterminatedString))
	}

	l.advanceByte() // 跳过结束引号
	return l.makeTokenWithValue(token.STRING, buf)
}

// ============================================================================
// 标识符扫描
// ============================================================================

// scanIdentifier 扫描标识符和关键字
//
// 标识符模式为 [A-Za-z_][A-Za-z0-9_]*，大小写敏感，
// 永远不以数字开头（数字开头的字元走 scanNumber）。
// 扫描完成后查 token.LookupIdent 区分标识符和关键字。
func (l *Lexer) scanIdentifier() token.Token {
	for isAlphaNumeric(l.peekByte()) {
		l.advanceByte()
	}

	text := l.source[l.start:l.current]
	return l.makeToken(token.LookupIdent(text))
}

// ============================================================================
// 底层字符操作
// ============================================================================

// isAtEnd 检查是否到达源代码末尾
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它
//
// 本方言的词法全部在 ASCII 内（标识符不允许非 ASCII 字符），
// 非 ASCII 字节只会出现在注释和字符串里，按原始字节处理。
func (l *Lexer) advance() byte {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	l.current++
	l.column++
	return b
}

// advanceByte 前进一个字节
func (l *Lexer) advanceByte() {
	l.current++
	l.column++
}

// peekByte 查看当前字节但不前进
func (l *Lexer) peekByte() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

// peekNextByte 查看下一个字节
func (l *Lexer) peekNextByte() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// match 如果当前字节匹配则前进
//
// 用于识别多字符运算符，如 == != <= // 等。
func (l *Lexer) match(expected byte) bool {
	if l.current >= len(l.source) || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

// newLine 处理换行，更新行号列号计数器
func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

// currentPos 获取当前 token 的起始位置
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column - (l.current - l.start),
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

// makeToken 生成一个无值的 Token
func (l *Lexer) makeToken(tokenType token.TokenType) token.Token {
	return token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Pos:     l.currentPos(),
	}
}

// makeTokenWithValue 生成一个带值的 Token
//
// 用于数字和字符串字面量，Value 字段存储解析后的值
// （INT 为 int32，STRING 为 []byte）。
func (l *Lexer) makeTokenWithValue(tokenType token.TokenType, value interface{}) token.Token {
	return token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Value:   value,
		Pos:     l.currentPos(),
	}
}

// errorToken 记录一个词法错误并生成 ILLEGAL token
//
// 错误被收集起来，不会中断扫描过程。
func (l *Lexer) errorToken(code, message string) token.Token {
	l.errors = append(l.errors, Error{
		Pos:     l.currentPos(),
		Code:    code,
		Message: message,
	})
	return l.makeToken(token.ILLEGAL)
}

// ============================================================================
// 字符分类函数
// ============================================================================

// isDigit 判断是否为数字 0-9
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isOctalDigit 判断是否为八进制数字 0-7
func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

// isHexDigit 判断是否为十六进制数字 0-9, a-f, A-F
func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// hexValue 十六进制数字的值
func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

// isAlpha 判断是否为字母或下划线
//
// 标识符只允许 ASCII：[A-Za-z_]。
func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_'
}

// isAlphaNumeric 判断是否为字母、数字或下划线
func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
