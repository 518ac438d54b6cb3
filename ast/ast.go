package ast

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/skylark/token"
)

// ============================================================================
// AST 节点接口
// ============================================================================
//
// 所有节点在语法分析期间构造，构造后不可变。
// 每个节点独占其子节点（严格树形，无共享、无环），
// 树的生命周期由调用方（下游求值器）决定。
//
// ============================================================================

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点结束位置
	String() string      // 返回节点的字符串表示（用于调试）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 操作数节点
// ============================================================================

// Identifier 标识符
type Identifier struct {
	Token token.Token
	Name  string
}

func (e *Identifier) Pos() token.Position { return e.Token.Pos }
func (e *Identifier) End() token.Position { return token.SpanFromToken(e.Token).End }
func (e *Identifier) String() string      { return e.Name }
func (e *Identifier) exprNode()           {}

// IntegerLiteral 整数字面量
//
// 值域为 32 位有符号整数，超界在词法扫描阶段即报错，
// 不会发生静默回绕。
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (e *IntegerLiteral) Pos() token.Position { return e.Token.Pos }
func (e *IntegerLiteral) End() token.Position { return token.SpanFromToken(e.Token).End }
func (e *IntegerLiteral) String() string      { return strconv.FormatInt(int64(e.Value), 10) }
func (e *IntegerLiteral) exprNode()           {}

// StringLiteral 字符串字面量
//
// Value 是解码转义后的原始字节序列，不保证是合法 UTF-8
// （转义允许写出任意字节，如 \xff）。
type StringLiteral struct {
	Token token.Token
	Value []byte
}

func (e *StringLiteral) Pos() token.Position { return e.Token.Pos }
func (e *StringLiteral) End() token.Position { return token.SpanFromToken(e.Token).End }
func (e *StringLiteral) String() string      { return strconv.Quote(string(e.Value)) }
func (e *StringLiteral) exprNode()           {}

// ============================================================================
// 运算符节点
// ============================================================================

// BinaryExpr 二元运算表达式
//
// Operator 的 token 类型即是判别标记，覆盖全部 18 种二元形式：
// or, and, ==, !=, <, >, <=, >=, in, not in, |, &, -, +, *, %, /, //
type BinaryExpr struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Left.Pos() }
func (e *BinaryExpr) End() token.Position { return e.Right.End() }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Type.String() + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// UnaryExpr 一元运算表达式 (-x, not x)
type UnaryExpr struct {
	Operator token.Token
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Operator.Pos }
func (e *UnaryExpr) End() token.Position { return e.Operand.End() }
func (e *UnaryExpr) String() string {
	if e.Operator.Type == token.NOT {
		return "(not " + e.Operand.String() + ")"
	}
	return "(" + e.Operator.Type.String() + e.Operand.String() + ")"
}
func (e *UnaryExpr) exprNode() {}

// ============================================================================
// 后缀节点
// ============================================================================
//
// 后缀形式（属性访问、切片、调用）从左到右贪婪串联，
// a.b[c](d) 解析为 Call(Slice(Dot(a, b), c), d)。
//
// ============================================================================

// DotExpr 属性访问 (x.name)
type DotExpr struct {
	Target Expression
	Dot    token.Token
	Name   *Identifier
}

func (e *DotExpr) Pos() token.Position { return e.Target.Pos() }
func (e *DotExpr) End() token.Position { return e.Name.End() }
func (e *DotExpr) String() string      { return e.Target.String() + "." + e.Name.Name }
func (e *DotExpr) exprNode()           {}

// SliceExpr 下标/切片 (x[i], x[lo:hi], x[lo:hi:step])
//
// 三个边界均可缺省（nil）。IsSlice 区分普通下标 x[i]（无冒号）
// 和切片形式（至少一个冒号）。
type SliceExpr struct {
	Target   Expression
	LBracket token.Token
	Lo       Expression // 可为 nil
	Hi       Expression // 可为 nil
	Step     Expression // 可为 nil
	IsSlice  bool       // true 表示含冒号的切片形式
	RBracket token.Token
}

func (e *SliceExpr) Pos() token.Position { return e.Target.Pos() }
func (e *SliceExpr) End() token.Position { return token.SpanFromToken(e.RBracket).End }
func (e *SliceExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Target.String())
	sb.WriteByte('[')
	if e.Lo != nil {
		sb.WriteString(e.Lo.String())
	}
	if e.IsSlice {
		sb.WriteByte(':')
		if e.Hi != nil {
			sb.WriteString(e.Hi.String())
		}
		if e.Step != nil {
			sb.WriteByte(':')
			sb.WriteString(e.Step.String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
func (e *SliceExpr) exprNode() {}

// Argument 调用实参
//
// Name 为 nil 表示位置实参，否则为关键字实参 name=value。
type Argument struct {
	Name  *Identifier // 可为 nil
	Value Expression
}

func (a *Argument) String() string {
	if a.Name != nil {
		return a.Name.Name + "=" + a.Value.String()
	}
	return a.Value.String()
}

// CallExpr 调用表达式 (f(a, b, k=v))
type CallExpr struct {
	Fun    Expression
	LParen token.Token
	Args   []*Argument
	RParen token.Token
}

func (e *CallExpr) Pos() token.Position { return e.Fun.Pos() }
func (e *CallExpr) End() token.Position { return token.SpanFromToken(e.RParen).End }
func (e *CallExpr) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return e.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}
func (e *CallExpr) exprNode() {}

// ============================================================================
// 复合字面量节点
// ============================================================================

// TupleExpr 元组
//
// 解析期区分 (x)（普通括号表达式，不产生本节点）和 (x,)
// （单元素元组，需要尾随逗号标记）。Elements 可为空（()）。
type TupleExpr struct {
	LParen   token.Token // 无括号元组时为零值
	Elements []Expression
	RParen   token.Token
}

func (e *TupleExpr) Pos() token.Position {
	if e.LParen.Pos.IsValid() {
		return e.LParen.Pos
	}
	return e.Elements[0].Pos()
}
func (e *TupleExpr) End() token.Position {
	if e.RParen.Pos.IsValid() {
		return token.SpanFromToken(e.RParen).End
	}
	return e.Elements[len(e.Elements)-1].End()
}
func (e *TupleExpr) String() string {
	var elems []string
	for _, el := range e.Elements {
		elems = append(elems, el.String())
	}
	if len(elems) == 1 {
		return "(" + elems[0] + ",)"
	}
	return "(" + strings.Join(elems, ", ") + ")"
}
func (e *TupleExpr) exprNode() {}

// ListExpr 列表字面量 ([a, b, c])
type ListExpr struct {
	LBracket token.Token
	Elements []Expression
	RBracket token.Token
}

func (e *ListExpr) Pos() token.Position { return e.LBracket.Pos }
func (e *ListExpr) End() token.Position { return token.SpanFromToken(e.RBracket).End }
func (e *ListExpr) String() string {
	var elems []string
	for _, el := range e.Elements {
		elems = append(elems, el.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
func (e *ListExpr) exprNode() {}

// ============================================================================
// 推导式节点
// ============================================================================

// CompClause 推导式子句 (for ... in ... / if ...)
//
// 子句按源代码顺序存放，迭代顺序对下游语义有意义。
type CompClause interface {
	Node
	compClause()
}

// ForClause 推导式 for 子句 (for targets in iterable)
type ForClause struct {
	For      token.Token
	Targets  Expression // 标识符或元组
	In       token.Token
	Iterable Expression
}

func (c *ForClause) Pos() token.Position { return c.For.Pos }
func (c *ForClause) End() token.Position { return c.Iterable.End() }
func (c *ForClause) String() string {
	return "for " + c.Targets.String() + " in " + c.Iterable.String()
}
func (c *ForClause) compClause() {}

// IfClause 推导式 if 过滤子句
type IfClause struct {
	If   token.Token
	Cond Expression
}

func (c *IfClause) Pos() token.Position { return c.If.Pos }
func (c *IfClause) End() token.Position { return c.Cond.End() }
func (c *IfClause) String() string      { return "if " + c.Cond.String() }
func (c *IfClause) compClause()         {}

// ListComp 列表推导式 ([elem for x in xs if cond])
type ListComp struct {
	LBracket token.Token
	Elem     Expression
	Clauses  []CompClause // 至少一个 ForClause
	RBracket token.Token
}

func (e *ListComp) Pos() token.Position { return e.LBracket.Pos }
func (e *ListComp) End() token.Position { return token.SpanFromToken(e.RBracket).End }
func (e *ListComp) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(e.Elem.String())
	for _, c := range e.Clauses {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
func (e *ListComp) exprNode() {}

// DictEntry 字典项 (key: value)
type DictEntry struct {
	Key   Expression
	Colon token.Token
	Value Expression
}

func (d *DictEntry) String() string { return d.Key.String() + ": " + d.Value.String() }

// DictExpr 字典字面量 ({k: v, ...})
type DictExpr struct {
	LBrace  token.Token
	Entries []*DictEntry
	RBrace  token.Token
}

func (e *DictExpr) Pos() token.Position { return e.LBrace.Pos }
func (e *DictExpr) End() token.Position { return token.SpanFromToken(e.RBrace).End }
func (e *DictExpr) String() string {
	var entries []string
	for _, en := range e.Entries {
		entries = append(entries, en.String())
	}
	return "{" + strings.Join(entries, ", ") + "}"
}
func (e *DictExpr) exprNode() {}

// DictComp 字典推导式 ({k: v for x in xs})
type DictComp struct {
	LBrace  token.Token
	Key     Expression
	Value   Expression
	Clauses []CompClause // 至少一个 ForClause
	RBrace  token.Token
}

func (e *DictComp) Pos() token.Position { return e.LBrace.Pos }
func (e *DictComp) End() token.Position { return token.SpanFromToken(e.RBrace).End }
func (e *DictComp) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(e.Key.String())
	sb.WriteString(": ")
	sb.WriteString(e.Value.String())
	for _, c := range e.Clauses {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
func (e *DictComp) exprNode() {}

// ============================================================================
// 条件表达式节点
// ============================================================================

// CondExpr 条件表达式 (then if cond else alt)
//
// 三个子表达式缺一不可：被选值、条件、替代值。
type CondExpr struct {
	Then Expression
	If   token.Token
	Cond Expression
	Else token.Token
	Alt  Expression
}

func (e *CondExpr) Pos() token.Position { return e.Then.Pos() }
func (e *CondExpr) End() token.Position { return e.Alt.End() }
func (e *CondExpr) String() string {
	return "(" + e.Then.String() + " if " + e.Cond.String() + " else " + e.Alt.String() + ")"
}
func (e *CondExpr) exprNode() {}
