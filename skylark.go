// Package skylark 提供一个 Python 风味配置语言的语法前端：
// 词法分析、语法分析和 AST 构造。
//
// 两个入口分别解析单个表达式和整个模块：
//
//	expr, err := skylark.ParseExpression("[x * 2 for x in xs]")
//	module, err := skylark.ParseModule("BUILD.sky", src)
//
// 解析是纯函数式的：输入源文本，输出语法树或错误列表，
// 没有共享状态，可以在任意多个 goroutine 上并发调用。
// 求值、名字解析等后续阶段由 AST 的消费方负责。
package skylark

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tangzhangming/skylark/ast"
	"github.com/tangzhangming/skylark/internal/errors"
	"github.com/tangzhangming/skylark/parser"
	"github.com/tangzhangming/skylark/token"
)

// ErrorKind 错误类别
type ErrorKind int

const (
	// KindLex 词法错误：非法字符、未闭合字符串、缩进不一致等
	KindLex ErrorKind = iota
	// KindNumber 整数字面量格式错误：前导零、进制数字缺失、溢出等
	KindNumber
	// KindSyntax 语法错误：意外 token、比较链、非法赋值目标等
	KindSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindNumber:
		return "number"
	default:
		return "syntax"
	}
}

// ParseError 单条解析错误
type ParseError struct {
	Kind     ErrorKind
	Code     string // 错误码，如 E0100
	Message  string
	Position token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", e.Position, e.Kind, e.Code, e.Message)
}

// ParseExpression 解析单个表达式
//
// 表达式之后的残余 token 是错误。顶层逗号产生元组。
// 出错时返回的 error 由全部错误合并而成，单条错误通过
// multierr.Errors 展开，每条都是 *ParseError。
func ParseExpression(src string) (ast.Expression, error) {
	p := parser.New(src, "<expr>")
	expr := p.ParseExpression()

	if err := collectErrors(p); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseModule 解析一个源文件
//
// filename 只用于错误信息和节点位置，这里不做任何 IO。
// 即便出错也返回尽力解析出的 Module，便于诊断工具在
// 有错误的文件上继续工作。
func ParseModule(filename, src string) (*ast.Module, error) {
	p := parser.New(src, filename)
	module := p.Parse()

	return module, collectErrors(p)
}

// collectErrors 把词法和语法两阶段的错误合并为单个 error
//
// 词法错误排在前面，两组内部各自保持源代码顺序。
func collectErrors(p *parser.Parser) error {
	var err error

	for _, e := range p.LexErrors() {
		err = multierr.Append(err, &ParseError{
			Kind:     kindOf(e.Code),
			Code:     e.Code,
			Message:  e.Message,
			Position: e.Pos,
		})
	}
	for _, e := range p.Errors() {
		err = multierr.Append(err, &ParseError{
			Kind:     kindOf(e.Code),
			Code:     e.Code,
			Message:  e.Message,
			Position: e.Pos,
		})
	}

	return err
}

func kindOf(code string) ErrorKind {
	switch errors.KindOf(code) {
	case errors.KindLex:
		return KindLex
	case errors.KindNumber:
		return KindNumber
	default:
		return KindSyntax
	}
}
