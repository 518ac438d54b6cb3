package parser

import (
	"fmt"

	"github.com/tangzhangming/skylark/ast"
	"github.com/tangzhangming/skylark/internal/errors"
	"github.com/tangzhangming/skylark/internal/i18n"
	"github.com/tangzhangming/skylark/lexer"
	"github.com/tangzhangming/skylark/token"
)

// ============================================================================
// Parser - 语法分析器
// ============================================================================
//
// 自顶向下的递归下降解析，表达式部分用运算符优先级爬升。
// 输入是词法器产出的完整 Token 序列（含 NEWLINE/INDENT/DEDENT
// 布局标记），输出是 ast 包定义的语法树。
//
// 错误恢复采用 panicMode 标志：出错后吞掉到下一个语句边界
// （NEWLINE 或语句关键字）之前的 token，避免级联报错。
//
// ============================================================================

// Parser 语法分析器
type Parser struct {
	lexer     *lexer.Lexer
	tokens    []token.Token
	current   int
	errors    []Error
	filename  string
	panicMode bool // 错误恢复模式标志，用于避免级联报错
	exprDepth int  // 表达式解析深度，防止栈溢出
}

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

// Error 语法分析错误
type Error struct {
	Pos     token.Position
	Code    string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Kind 返回错误类别
func (e Error) Kind() errors.Kind {
	return errors.KindOf(e.Code)
}

// New 创建一个新的语法分析器
func New(source, filename string) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	return &Parser{
		lexer:    l,
		tokens:   tokens,
		current:  0,
		filename: filename,
	}
}

// Parse 解析整个源文件
//
// 永远返回非 nil 的 Module；出错的语句被跳过，
// 调用方通过 HasErrors / Errors 获取错误列表。
func (p *Parser) Parse() *ast.Module {
	module := &ast.Module{
		Filename: p.filename,
	}

	for !p.isAtEnd() {
		p.panicMode = false // 每次迭代重置 panicMode

		// 顶层的空行
		if p.match(token.NEWLINE) {
			continue
		}
		// 顶层不允许缩进
		if p.checkAny(token.INDENT, token.DEDENT) {
			p.error(errors.E0200, i18n.T(i18n.ErrUnexpectedToken, p.peek().Type))
			p.advance()
			continue
		}

		stmts := p.parseStatementLine()
		module.Statements = append(module.Statements, stmts...)
		if p.panicMode {
			p.synchronize()
		}
	}

	return module
}

// ParseExpression 解析单个表达式
//
// 表达式之后只允许布局标记和文件尾；有残余 token 报错。
// 顶层逗号产生元组（"1, 2" 是二元组）。
func (p *Parser) ParseExpression() ast.Expression {
	expr := p.parseTestList()

	for p.match(token.NEWLINE) {
	}
	if !p.isAtEnd() && !p.panicMode {
		p.error(errors.E0206, i18n.T(i18n.ErrTrailingTokens))
	}

	return expr
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// LexErrors 返回词法阶段的错误
func (p *Parser) LexErrors() []lexer.Error {
	return p.lexer.Errors()
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() token.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // 返回EOF
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.error(errors.E0201, message)
	p.panicMode = true
	return token.Token{} // 返回零值，调用方应检查 panicMode
}

func (p *Parser) error(code, message string) {
	// panicMode 下跳过后续错误，避免级联报错
	if p.panicMode {
		return
	}

	pos := p.peek().Pos

	// 避免在同一位置重复报错
	if len(p.errors) > 0 {
		last := p.errors[len(p.errors)-1]
		if last.Pos.Line == pos.Line && last.Pos.Column == pos.Column {
			return
		}
	}

	// 检查是否超过最大错误数量
	if len(p.errors) >= maxParseErrors {
		p.errors = append(p.errors, Error{
			Pos:     pos,
			Code:    code,
			Message: "too many errors, aborting",
		})
		p.panicMode = true
		return
	}

	p.errors = append(p.errors, Error{
		Pos:     pos,
		Code:    code,
		Message: message,
	})
}

func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		// 换行后是语句边界
		if p.previous().Type == token.NEWLINE {
			return
		}

		// 新语句的开始是安全的同步点
		switch p.peek().Type {
		case token.IF, token.FOR, token.DEF,
			token.RETURN, token.BREAK, token.CONTINUE, token.PASS,
			token.LOAD, token.DEDENT:
			return
		}

		p.advance()
	}
}

// expectNewline 要求逻辑行在此结束
func (p *Parser) expectNewline() {
	if p.isAtEnd() || p.match(token.NEWLINE) {
		return
	}
	p.error(errors.E0201, i18n.T(i18n.ErrExpectedToken, token.NEWLINE))
	p.panicMode = true
}

// startsExpr 判断当前 token 能否作为表达式开头
func (p *Parser) startsExpr() bool {
	return p.checkAny(token.IDENT, token.INT, token.STRING,
		token.LPAREN, token.LBRACKET, token.LBRACE,
		token.MINUS, token.NOT)
}

// ============================================================================
// 语句解析
// ============================================================================

// parseStatementLine 解析一个语句行
//
// 复合语句（if/for/def）独占一行并携带自己的块；
// 简单语句行可以由分号连接多条小语句。
func (p *Parser) parseStatementLine() []ast.Statement {
	switch p.peek().Type {
	case token.IF:
		if stmt := p.parseIfStmt(); stmt != nil {
			return []ast.Statement{stmt}
		}
		return nil
	case token.FOR:
		if stmt := p.parseForStmt(); stmt != nil {
			return []ast.Statement{stmt}
		}
		return nil
	case token.DEF:
		if stmt := p.parseDefStmt(); stmt != nil {
			return []ast.Statement{stmt}
		}
		return nil
	default:
		return p.parseSimpleStmtLine()
	}
}

// parseSimpleStmtLine 解析分号分隔的小语句序列，直到行尾
func (p *Parser) parseSimpleStmtLine() []ast.Statement {
	var stmts []ast.Statement

	for {
		stmt := p.parseSmallStmt()
		if p.panicMode {
			return stmts
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}

		if p.match(token.SEMICOLON) {
			// 尾随分号后直接是行尾
			if p.isAtEnd() || p.check(token.NEWLINE) {
				break
			}
			continue
		}
		break
	}

	p.expectNewline()
	return stmts
}

// parseSmallStmt 解析一条小语句（不含块的语句）
func (p *Parser) parseSmallStmt() ast.Statement {
	switch p.peek().Type {

	case token.RETURN:
		tok := p.advance()
		stmt := &ast.ReturnStmt{Return: tok}
		if p.startsExpr() {
			stmt.Result = p.parseTestList()
		}
		return stmt

	case token.BREAK, token.CONTINUE, token.PASS:
		return &ast.BranchStmt{Token: p.advance()}

	case token.LOAD:
		return p.parseLoadStmt()

	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseExprOrAssignStmt 解析表达式语句或赋值语句
func (p *Parser) parseExprOrAssignStmt() ast.Statement {
	target := p.parseTestList()
	if target == nil {
		return nil
	}

	if p.checkAny(token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.STAR_ASSIGN, token.SLASH_ASSIGN, token.SLASH_SLASH_ASSIGN,
		token.PERCENT_ASSIGN) {

		op := p.advance()

		// 复合赋值不允许元组/列表目标
		allowUnpack := op.Type == token.ASSIGN
		if !isValidAssignTarget(target, allowUnpack) {
			p.error(errors.E0205, i18n.T(i18n.ErrInvalidAssignTarget))
		}

		value := p.parseTestList()
		if value == nil {
			return nil
		}
		return &ast.AssignStmt{Target: target, Operator: op, Value: value}
	}

	return &ast.ExprStmt{Expr: target}
}

// isValidAssignTarget 判断表达式能否作为赋值目标
//
// 标识符、属性访问和下标是合法目标；元组和列表目标
// 仅在普通赋值（解包）中允许，且要求各元素递归合法。
func isValidAssignTarget(expr ast.Expression, allowUnpack bool) bool {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.DotExpr, *ast.SliceExpr:
		return true
	case *ast.TupleExpr:
		if !allowUnpack || len(e.Elements) == 0 {
			return false
		}
		for _, el := range e.Elements {
			if !isValidAssignTarget(el, allowUnpack) {
				return false
			}
		}
		return true
	case *ast.ListExpr:
		if !allowUnpack || len(e.Elements) == 0 {
			return false
		}
		for _, el := range e.Elements {
			if !isValidAssignTarget(el, allowUnpack) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// parseLoadStmt 解析 load 语句
//
// load("module", "sym", alias="orig") 形式。第一个实参是
// 模块名字符串，其后每项要么是符号名字符串（本地名与模块内
// 名相同的简写），要么是 本地名="模块内名" 的别名绑定。
func (p *Parser) parseLoadStmt() ast.Statement {
	loadTok := p.advance()

	lparen := p.consume(token.LPAREN, i18n.T(i18n.ErrExpectedToken, token.LPAREN))
	if p.panicMode {
		return nil
	}

	module := p.parseStringLiteral()
	if module == nil {
		return nil
	}

	stmt := &ast.LoadStmt{
		Load:   loadTok,
		LParen: lparen,
		Module: module,
	}

	for p.match(token.COMMA) {
		if p.check(token.RPAREN) {
			break // 尾随逗号
		}

		if p.check(token.IDENT) && p.peekNext().Type == token.ASSIGN {
			// 别名绑定: local="orig"
			localTok := p.advance()
			p.advance() // =
			orig := p.parseStringLiteral()
			if orig == nil {
				return nil
			}
			stmt.Symbols = append(stmt.Symbols, &ast.LoadSymbol{
				Local: &ast.Identifier{Token: localTok, Name: localTok.Literal},
				Orig:  orig,
			})
			continue
		}

		// 简写: "sym"，本地名取符号名本身
		orig := p.parseStringLiteral()
		if orig == nil {
			return nil
		}
		stmt.Symbols = append(stmt.Symbols, &ast.LoadSymbol{
			Local: &ast.Identifier{Token: orig.Token, Name: string(orig.Value)},
			Orig:  orig,
		})
	}

	stmt.RParen = p.consume(token.RPAREN, i18n.T(i18n.ErrExpectedToken, token.RPAREN))
	if p.panicMode {
		return nil
	}
	return stmt
}

// parseStringLiteral 解析一个字符串字面量 token
func (p *Parser) parseStringLiteral() *ast.StringLiteral {
	tok := p.consume(token.STRING, i18n.T(i18n.ErrExpectedToken, token.STRING))
	if p.panicMode {
		return nil
	}
	return &ast.StringLiteral{Token: tok, Value: tok.Value.([]byte)}
}

// ============================================================================
// 复合语句解析
// ============================================================================

// parseIfStmt 解析 if 语句
//
// elif 链脱糖为嵌套 if：每个 elif 变成 else 块中唯一的
// 嵌套 IfStmt，AST 消费方只需处理二路分支。
func (p *Parser) parseIfStmt() ast.Statement {
	ifTok := p.advance() // IF 或脱糖途中的 ELIF

	cond := p.parseTest()
	if cond == nil {
		return nil
	}

	then := p.parseSuite()
	if then == nil {
		return nil
	}

	stmt := &ast.IfStmt{If: ifTok, Cond: cond, Then: then}

	if p.check(token.ELIF) {
		nested := p.parseIfStmt()
		if nested != nil {
			stmt.Else = &ast.Suite{
				Colon:      token.Token{Type: token.COLON, Pos: nested.Pos()},
				Statements: []ast.Statement{nested},
			}
		}
		return stmt
	}

	if p.check(token.ELSE) {
		p.advance()
		stmt.Else = p.parseSuite()
	}

	return stmt
}

// parseForStmt 解析 for 循环语句
func (p *Parser) parseForStmt() ast.Statement {
	forTok := p.advance()

	targets := p.parseForTargets()
	if targets == nil {
		return nil
	}

	inTok := p.consume(token.IN, i18n.T(i18n.ErrExpectedToken, token.IN))
	if p.panicMode {
		return nil
	}

	iterable := p.parseTestList()
	if iterable == nil {
		return nil
	}

	body := p.parseSuite()
	if body == nil {
		return nil
	}

	return &ast.ForStmt{
		For:      forTok,
		Targets:  targets,
		In:       inTok,
		Iterable: iterable,
		Body:     body,
	}
}

// parseDefStmt 解析函数定义语句
func (p *Parser) parseDefStmt() ast.Statement {
	defTok := p.advance()

	nameTok := p.consume(token.IDENT, i18n.T(i18n.ErrExpectedToken, token.IDENT))
	if p.panicMode {
		return nil
	}

	p.consume(token.LPAREN, i18n.T(i18n.ErrExpectedToken, token.LPAREN))
	if p.panicMode {
		return nil
	}

	params := p.parseParams()
	if p.panicMode {
		return nil
	}

	p.consume(token.RPAREN, i18n.T(i18n.ErrExpectedToken, token.RPAREN))
	if p.panicMode {
		return nil
	}

	body := p.parseSuite()
	if body == nil {
		return nil
	}

	return &ast.DefStmt{
		Def:    defTok,
		Name:   &ast.Identifier{Token: nameTok, Name: nameTok.Literal},
		Params: params,
		Body:   body,
	}
}

// parseParams 解析形参列表（不含括号）
//
// 有默认值的形参之后不能再出现无默认值的形参。
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	seenDefault := false

	for !p.check(token.RPAREN) && !p.isAtEnd() {
		nameTok := p.consume(token.IDENT, i18n.T(i18n.ErrExpectedToken, token.IDENT))
		if p.panicMode {
			return params
		}

		param := &ast.Param{
			Name: &ast.Identifier{Token: nameTok, Name: nameTok.Literal},
		}

		if p.match(token.ASSIGN) {
			param.Default = p.parseTest()
			if param.Default == nil {
				return params
			}
			seenDefault = true
		} else if seenDefault {
			p.error(errors.E0209, i18n.T(i18n.ErrParamOrder))
		}

		params = append(params, param)

		if !p.match(token.COMMA) {
			break
		}
	}

	return params
}

// parseSuite 解析语句块
//
// 两种形式：
//  1. 冒号 + 换行 + INDENT + 语句序列 + DEDENT
//  2. 冒号 + 同一行上的简单语句序列（内联形式）
func (p *Parser) parseSuite() *ast.Suite {
	colon := p.consume(token.COLON, i18n.T(i18n.ErrExpectedToken, token.COLON))
	if p.panicMode {
		return nil
	}

	if p.match(token.NEWLINE) {
		if !p.match(token.INDENT) {
			p.error(errors.E0207, i18n.T(i18n.ErrExpectedIndent))
			p.panicMode = true
			return nil
		}

		suite := &ast.Suite{Colon: colon}
		for !p.check(token.DEDENT) && !p.isAtEnd() {
			p.panicMode = false
			if p.match(token.NEWLINE) {
				continue
			}
			stmts := p.parseStatementLine()
			suite.Statements = append(suite.Statements, stmts...)
			if p.panicMode {
				p.synchronize()
			}
		}
		p.match(token.DEDENT)
		return suite
	}

	// 内联形式: if x: a; b
	stmts := p.parseSimpleStmtLine()
	if p.panicMode {
		return nil
	}
	return &ast.Suite{Colon: colon, Statements: stmts, Inline: true}
}

// ============================================================================
// 表达式解析
// ============================================================================
//
// 优先级从低到高。条件表达式最低，后缀形式最高：
//
//	x if c else y
//	or
//	and
//	not x
//	== != < <= > >= in, not in   （不允许链式）
//	|
//	&
//	+ -
//	* / // %
//	-x
//	. [] ()
//
// ============================================================================

const (
	PREC_NONE       = iota
	PREC_TERNARY    // x if c else y
	PREC_OR         // or
	PREC_AND        // and
	PREC_NOT        // not x
	PREC_COMPARISON // == != < <= > >= in, not in
	PREC_BIT_OR     // |
	PREC_BIT_AND    // &
	PREC_TERM       // + -
	PREC_FACTOR     // * / // %
	PREC_UNARY      // -x
	PREC_POSTFIX    // . [] ()
)

// getPrecedence 中缀位置上 token 的优先级
//
// NOT 只有后跟 IN 时才是中缀运算符（not in），否则在
// 中缀位置没有意义。
func (p *Parser) getPrecedence(t token.TokenType) int {
	switch t {
	case token.IF:
		return PREC_TERNARY
	case token.OR:
		return PREC_OR
	case token.AND:
		return PREC_AND
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE, token.IN:
		return PREC_COMPARISON
	case token.NOT:
		if p.peekNext().Type == token.IN {
			return PREC_COMPARISON
		}
		return PREC_NONE
	case token.BIT_OR:
		return PREC_BIT_OR
	case token.BIT_AND:
		return PREC_BIT_AND
	case token.PLUS, token.MINUS:
		return PREC_TERM
	case token.STAR, token.SLASH, token.SLASH_SLASH, token.PERCENT:
		return PREC_FACTOR
	case token.DOT, token.LBRACKET, token.LPAREN:
		return PREC_POSTFIX
	default:
		return PREC_NONE
	}
}

// opPrecedence 二元运算符自身的优先级（含合成的 NOT_IN）
func opPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return PREC_OR
	case token.AND:
		return PREC_AND
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE,
		token.IN, token.NOT_IN:
		return PREC_COMPARISON
	case token.BIT_OR:
		return PREC_BIT_OR
	case token.BIT_AND:
		return PREC_BIT_AND
	case token.PLUS, token.MINUS:
		return PREC_TERM
	default:
		return PREC_FACTOR
	}
}

// parseTest 解析单个表达式（不含顶层逗号）
func (p *Parser) parseTest() ast.Expression {
	return p.parsePrecedence(PREC_TERNARY)
}

// parseTestList 解析逗号分隔的表达式序列
//
// 出现顶层逗号即构成（无括号的）元组，允许尾随逗号：
// "x," 是单元素元组。
func (p *Parser) parseTestList() ast.Expression {
	first := p.parseTest()
	if first == nil || !p.check(token.COMMA) {
		return first
	}

	elems := []ast.Expression{first}
	for p.match(token.COMMA) {
		if !p.startsExpr() {
			break // 尾随逗号
		}
		e := p.parseTest()
		if e == nil {
			return nil
		}
		elems = append(elems, e)
	}

	return &ast.TupleExpr{Elements: elems}
}

// parsePrecedence 优先级爬升主循环
func (p *Parser) parsePrecedence(precedence int) ast.Expression {
	// 检查递归深度，防止栈溢出
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.error(errors.E0204, i18n.T(i18n.ErrExprTooDeep))
		p.panicMode = true
		p.exprDepth--
		return nil
	}
	defer func() { p.exprDepth-- }()

	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for precedence <= p.getPrecedence(p.peek().Type) && !p.panicMode {
		left = p.parseInfixExpr(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	switch p.peek().Type {

	case token.INT:
		tok := p.advance()
		return &ast.IntegerLiteral{
			Token: tok,
			Value: tok.Value.(int32),
		}

	case token.STRING:
		tok := p.advance()
		return &ast.StringLiteral{
			Token: tok,
			Value: tok.Value.([]byte),
		}

	case token.IDENT:
		tok := p.advance()
		return &ast.Identifier{Token: tok, Name: tok.Literal}

	case token.LPAREN:
		return p.parseGroupOrTuple()

	case token.LBRACKET:
		return p.parseListOrComp()

	case token.LBRACE:
		return p.parseDictOrComp()

	case token.MINUS:
		op := p.advance()
		operand := p.parsePrecedence(PREC_UNARY)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Operator: op, Operand: operand}

	case token.NOT:
		// not 比比较运算符结合得松：not a == b 解析为 not (a == b)
		op := p.advance()
		operand := p.parsePrecedence(PREC_NOT + 1)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Operator: op, Operand: operand}

	default:
		p.error(errors.E0202, i18n.T(i18n.ErrExpectedExpression))
		p.panicMode = true
		p.advance() // 跳过无效 token，防止无限循环
		return nil
	}
}

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	switch p.peek().Type {

	case token.OR, token.AND,
		token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE,
		token.IN, token.NOT,
		token.BIT_OR, token.BIT_AND,
		token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.SLASH_SLASH, token.PERCENT:
		return p.parseBinaryExpr(left)

	case token.IF:
		return p.parseCondExpr(left)

	case token.DOT:
		return p.parseDotExpr(left)

	case token.LBRACKET:
		return p.parseSliceExpr(left)

	case token.LPAREN:
		return p.parseCallExpr(left)

	default:
		// getPrecedence 保证不会到达这里
		p.error(errors.E0200, i18n.T(i18n.ErrUnexpectedToken, p.peek().Type))
		p.panicMode = true
		return nil
	}
}

// parseBinaryExpr 解析二元运算表达式（左结合）
//
// `not in` 在这里由相邻的 NOT IN 两个 token 合成为单一
// 运算符。比较运算符不允许链式使用：a < b < c 报错，
// 必须写成 (a < b) < c 或拆成逻辑与。
func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	op := p.advance()

	if op.Type == token.NOT {
		p.consume(token.IN, i18n.T(i18n.ErrExpectedToken, token.IN))
		if p.panicMode {
			return nil
		}
		op = token.Token{Type: token.NOT_IN, Literal: "not in", Pos: op.Pos}
	}

	prec := opPrecedence(op.Type)
	right := p.parsePrecedence(prec + 1)
	if right == nil {
		return nil
	}

	expr := &ast.BinaryExpr{Left: left, Operator: op, Right: right}

	if prec == PREC_COMPARISON && p.getPrecedence(p.peek().Type) == PREC_COMPARISON {
		p.error(errors.E0203, i18n.T(i18n.ErrComparisonChain))
		p.panicMode = true
	}

	return expr
}

// parseCondExpr 解析条件表达式 then if cond else alt
//
// 条件部分不能又是裸的条件表达式；替代部分右结合，
// a if c1 else b if c2 else c 解析为 a if c1 else (b if c2 else c)。
func (p *Parser) parseCondExpr(left ast.Expression) ast.Expression {
	ifTok := p.advance()

	cond := p.parsePrecedence(PREC_TERNARY + 1)
	if cond == nil {
		return nil
	}

	elseTok := p.consume(token.ELSE, i18n.T(i18n.ErrExpectedToken, token.ELSE))
	if p.panicMode {
		return nil
	}

	alt := p.parsePrecedence(PREC_TERNARY)
	if alt == nil {
		return nil
	}

	return &ast.CondExpr{Then: left, If: ifTok, Cond: cond, Else: elseTok, Alt: alt}
}

// ============================================================================
// 后缀表达式解析
// ============================================================================

// parseDotExpr 解析属性访问 x.name
func (p *Parser) parseDotExpr(left ast.Expression) ast.Expression {
	dot := p.advance()

	nameTok := p.consume(token.IDENT, i18n.T(i18n.ErrExpectedToken, token.IDENT))
	if p.panicMode {
		return nil
	}

	return &ast.DotExpr{
		Target: left,
		Dot:    dot,
		Name:   &ast.Identifier{Token: nameTok, Name: nameTok.Literal},
	}
}

// parseSliceExpr 解析下标 x[i] 和切片 x[lo:hi:step]
//
// 切片的三个边界都可以缺省；普通下标的索引表达式不可缺省。
func (p *Parser) parseSliceExpr(left ast.Expression) ast.Expression {
	lbracket := p.advance()

	expr := &ast.SliceExpr{Target: left, LBracket: lbracket}

	if !p.checkAny(token.COLON, token.RBRACKET) {
		expr.Lo = p.parseTest()
		if expr.Lo == nil {
			return nil
		}
	}

	if p.match(token.COLON) {
		expr.IsSlice = true
		if !p.checkAny(token.COLON, token.RBRACKET) {
			expr.Hi = p.parseTest()
			if expr.Hi == nil {
				return nil
			}
		}
		if p.match(token.COLON) {
			if !p.check(token.RBRACKET) {
				expr.Step = p.parseTest()
				if expr.Step == nil {
					return nil
				}
			}
		}
	} else if expr.Lo == nil {
		// x[] 既不是下标也不是切片
		p.error(errors.E0202, i18n.T(i18n.ErrExpectedExpression))
		p.panicMode = true
		return nil
	}

	expr.RBracket = p.consume(token.RBRACKET, i18n.T(i18n.ErrExpectedToken, token.RBRACKET))
	if p.panicMode {
		return nil
	}
	return expr
}

// parseCallExpr 解析调用表达式 f(a, b, k=v)
//
// 位置实参必须全部出现在关键字实参之前。
func (p *Parser) parseCallExpr(fun ast.Expression) ast.Expression {
	lparen := p.advance()

	expr := &ast.CallExpr{Fun: fun, LParen: lparen}
	seenKeyword := false

	for !p.check(token.RPAREN) && !p.isAtEnd() {
		if p.check(token.IDENT) && p.peekNext().Type == token.ASSIGN {
			nameTok := p.advance()
			p.advance() // =
			value := p.parseTest()
			if value == nil {
				return nil
			}
			expr.Args = append(expr.Args, &ast.Argument{
				Name:  &ast.Identifier{Token: nameTok, Name: nameTok.Literal},
				Value: value,
			})
			seenKeyword = true
		} else {
			if seenKeyword {
				p.error(errors.E0208, i18n.T(i18n.ErrKeywordArgOrder))
			}
			value := p.parseTest()
			if value == nil {
				return nil
			}
			expr.Args = append(expr.Args, &ast.Argument{Value: value})
		}

		if !p.match(token.COMMA) {
			break
		}
	}

	expr.RParen = p.consume(token.RPAREN, i18n.T(i18n.ErrExpectedToken, token.RPAREN))
	if p.panicMode {
		return nil
	}
	return expr
}

// ============================================================================
// 复合字面量解析
// ============================================================================

// parseGroupOrTuple 解析括号表达式或元组
//
// () 是空元组；(x) 是普通分组，产出内层表达式本身；
// (x,) 带尾随逗号才是单元素元组。
func (p *Parser) parseGroupOrTuple() ast.Expression {
	lparen := p.advance()

	if p.check(token.RPAREN) {
		rparen := p.advance()
		return &ast.TupleExpr{LParen: lparen, RParen: rparen}
	}

	first := p.parseTest()
	if first == nil {
		return nil
	}

	if p.check(token.COMMA) {
		elems := []ast.Expression{first}
		for p.match(token.COMMA) {
			if p.check(token.RPAREN) {
				break
			}
			e := p.parseTest()
			if e == nil {
				return nil
			}
			elems = append(elems, e)
		}
		rparen := p.consume(token.RPAREN, i18n.T(i18n.ErrExpectedToken, token.RPAREN))
		if p.panicMode {
			return nil
		}
		return &ast.TupleExpr{LParen: lparen, Elements: elems, RParen: rparen}
	}

	p.consume(token.RPAREN, i18n.T(i18n.ErrExpectedToken, token.RPAREN))
	if p.panicMode {
		return nil
	}
	return first
}

// parseListOrComp 解析列表字面量或列表推导式
func (p *Parser) parseListOrComp() ast.Expression {
	lbracket := p.advance()

	if p.check(token.RBRACKET) {
		rbracket := p.advance()
		return &ast.ListExpr{LBracket: lbracket, RBracket: rbracket}
	}

	first := p.parseTest()
	if first == nil {
		return nil
	}

	// [elem for x in xs ...] 是推导式
	if p.check(token.FOR) {
		clauses := p.parseCompClauses()
		if p.panicMode {
			return nil
		}
		rbracket := p.consume(token.RBRACKET, i18n.T(i18n.ErrExpectedToken, token.RBRACKET))
		if p.panicMode {
			return nil
		}
		return &ast.ListComp{
			LBracket: lbracket,
			Elem:     first,
			Clauses:  clauses,
			RBracket: rbracket,
		}
	}

	elems := []ast.Expression{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACKET) {
			break // 尾随逗号
		}
		e := p.parseTest()
		if e == nil {
			return nil
		}
		elems = append(elems, e)
	}

	rbracket := p.consume(token.RBRACKET, i18n.T(i18n.ErrExpectedToken, token.RBRACKET))
	if p.panicMode {
		return nil
	}
	return &ast.ListExpr{LBracket: lbracket, Elements: elems, RBracket: rbracket}
}

// parseDictOrComp 解析字典字面量或字典推导式
func (p *Parser) parseDictOrComp() ast.Expression {
	lbrace := p.advance()

	if p.check(token.RBRACE) {
		rbrace := p.advance()
		return &ast.DictExpr{LBrace: lbrace, RBrace: rbrace}
	}

	key := p.parseTest()
	if key == nil {
		return nil
	}
	colon := p.consume(token.COLON, i18n.T(i18n.ErrExpectedToken, token.COLON))
	if p.panicMode {
		return nil
	}
	value := p.parseTest()
	if value == nil {
		return nil
	}

	// {k: v for x in xs ...} 是推导式
	if p.check(token.FOR) {
		clauses := p.parseCompClauses()
		if p.panicMode {
			return nil
		}
		rbrace := p.consume(token.RBRACE, i18n.T(i18n.ErrExpectedToken, token.RBRACE))
		if p.panicMode {
			return nil
		}
		return &ast.DictComp{
			LBrace:  lbrace,
			Key:     key,
			Value:   value,
			Clauses: clauses,
			RBrace:  rbrace,
		}
	}

	entries := []*ast.DictEntry{{Key: key, Colon: colon, Value: value}}
	for p.match(token.COMMA) {
		if p.check(token.RBRACE) {
			break // 尾随逗号
		}
		k := p.parseTest()
		if k == nil {
			return nil
		}
		c := p.consume(token.COLON, i18n.T(i18n.ErrExpectedToken, token.COLON))
		if p.panicMode {
			return nil
		}
		v := p.parseTest()
		if v == nil {
			return nil
		}
		entries = append(entries, &ast.DictEntry{Key: k, Colon: c, Value: v})
	}

	rbrace := p.consume(token.RBRACE, i18n.T(i18n.ErrExpectedToken, token.RBRACE))
	if p.panicMode {
		return nil
	}
	return &ast.DictExpr{LBrace: lbrace, Entries: entries, RBrace: rbrace}
}

// ============================================================================
// 推导式子句解析
// ============================================================================

// parseCompClauses 解析推导式子句序列
//
// 第一个子句必定是 for 子句（调用方已经看到 FOR），其后
// for 和 if 子句可以任意交错，按源代码顺序保存。
func (p *Parser) parseCompClauses() []ast.CompClause {
	var clauses []ast.CompClause

	for {
		switch p.peek().Type {

		case token.FOR:
			forTok := p.advance()
			targets := p.parseForTargets()
			if targets == nil {
				return clauses
			}
			inTok := p.consume(token.IN, i18n.T(i18n.ErrExpectedToken, token.IN))
			if p.panicMode {
				return clauses
			}
			// 迭代对象不含裸的条件表达式（后随的 if 是过滤子句）
			iterable := p.parsePrecedence(PREC_OR)
			if iterable == nil {
				return clauses
			}
			clauses = append(clauses, &ast.ForClause{
				For:      forTok,
				Targets:  targets,
				In:       inTok,
				Iterable: iterable,
			})

		case token.IF:
			ifTok := p.advance()
			cond := p.parsePrecedence(PREC_OR)
			if cond == nil {
				return clauses
			}
			clauses = append(clauses, &ast.IfClause{If: ifTok, Cond: cond})

		default:
			return clauses
		}
	}
}

// parseForTargets 解析 for 的循环变量列表
//
// 目标在比较层级之下解析，否则 `for x in xs` 里的 in
// 会被当成成员测试运算符吃掉。多个目标构成无括号元组。
func (p *Parser) parseForTargets() ast.Expression {
	first := p.parsePrecedence(PREC_BIT_OR)
	if first == nil {
		return nil
	}
	if !p.check(token.COMMA) {
		return first
	}

	elems := []ast.Expression{first}
	for p.match(token.COMMA) {
		if p.checkAny(token.IN, token.COLON) {
			break // 尾随逗号
		}
		e := p.parsePrecedence(PREC_BIT_OR)
		if e == nil {
			return nil
		}
		elems = append(elems, e)
	}

	return &ast.TupleExpr{Elements: elems}
}
