package ast

import (
	"strings"

	"github.com/tangzhangming/skylark/token"
)

// ============================================================================
// 语句节点
// ============================================================================

// Module 一个源文件解析出的语句序列
type Module struct {
	Filename   string
	Statements []Statement
}

func (m *Module) Pos() token.Position {
	if len(m.Statements) > 0 {
		return m.Statements[0].Pos()
	}
	return token.Position{Filename: m.Filename, Line: 1, Column: 1}
}
func (m *Module) End() token.Position {
	if len(m.Statements) > 0 {
		return m.Statements[len(m.Statements)-1].End()
	}
	return token.Position{Filename: m.Filename, Line: 1, Column: 1}
}
func (m *Module) String() string {
	var stmts []string
	for _, s := range m.Statements {
		stmts = append(stmts, s.String())
	}
	return strings.Join(stmts, "\n")
}

// Suite 语句块
//
// 一个块有两种文本形式：冒号加换行后的缩进语句序列，
// 或冒号之后同一行上的内联简单语句序列。Inline 记录是哪一种。
type Suite struct {
	Colon      token.Token
	Statements []Statement
	Inline     bool // true 表示冒号后同一行的内联形式
}

func (s *Suite) Pos() token.Position { return s.Colon.Pos }
func (s *Suite) End() token.Position {
	if len(s.Statements) > 0 {
		return s.Statements[len(s.Statements)-1].End()
	}
	return token.SpanFromToken(s.Colon).End
}
func (s *Suite) String() string {
	var stmts []string
	for _, st := range s.Statements {
		stmts = append(stmts, st.String())
	}
	if s.Inline {
		return ": " + strings.Join(stmts, "; ")
	}
	return ":\n  " + strings.Join(stmts, "\n  ")
}

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) End() token.Position { return s.Expr.End() }
func (s *ExprStmt) String() string      { return s.Expr.String() }
func (s *ExprStmt) stmtNode()           {}

// AssignStmt 赋值语句 (target = value, target += value, ...)
type AssignStmt struct {
	Target   Expression
	Operator token.Token // =, +=, -=, *=, /=, //=, %=
	Value    Expression
}

func (s *AssignStmt) Pos() token.Position { return s.Target.Pos() }
func (s *AssignStmt) End() token.Position { return s.Value.End() }
func (s *AssignStmt) String() string {
	return s.Target.String() + " " + s.Operator.Type.String() + " " + s.Value.String()
}
func (s *AssignStmt) stmtNode() {}

// ReturnStmt return 语句
type ReturnStmt struct {
	Return token.Token
	Result Expression // 可为 nil
}

func (s *ReturnStmt) Pos() token.Position { return s.Return.Pos }
func (s *ReturnStmt) End() token.Position {
	if s.Result != nil {
		return s.Result.End()
	}
	return token.SpanFromToken(s.Return).End
}
func (s *ReturnStmt) String() string {
	if s.Result != nil {
		return "return " + s.Result.String()
	}
	return "return"
}
func (s *ReturnStmt) stmtNode() {}

// BranchStmt break / continue / pass 语句
type BranchStmt struct {
	Token token.Token // BREAK, CONTINUE 或 PASS
}

func (s *BranchStmt) Pos() token.Position { return s.Token.Pos }
func (s *BranchStmt) End() token.Position { return token.SpanFromToken(s.Token).End }
func (s *BranchStmt) String() string      { return s.Token.Type.String() }
func (s *BranchStmt) stmtNode()           {}

// IfStmt if 语句
//
// elif 链在解析时脱糖为嵌套的 IfStmt：Else 块要么为 nil，
// 要么含一条语句（下一个 IfStmt），要么是 else 块本身。
type IfStmt struct {
	If   token.Token
	Cond Expression
	Then *Suite
	Else *Suite // 可为 nil
}

func (s *IfStmt) Pos() token.Position { return s.If.Pos }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}
func (s *IfStmt) String() string {
	result := "if " + s.Cond.String() + s.Then.String()
	if s.Else != nil {
		result += "\nelse" + s.Else.String()
	}
	return result
}
func (s *IfStmt) stmtNode() {}

// ForStmt for 循环语句
type ForStmt struct {
	For      token.Token
	Targets  Expression // 标识符或元组
	In       token.Token
	Iterable Expression
	Body     *Suite
}

func (s *ForStmt) Pos() token.Position { return s.For.Pos }
func (s *ForStmt) End() token.Position { return s.Body.End() }
func (s *ForStmt) String() string {
	return "for " + s.Targets.String() + " in " + s.Iterable.String() + s.Body.String()
}
func (s *ForStmt) stmtNode() {}

// Param 函数形参
//
// Default 为 nil 表示无默认值。
type Param struct {
	Name    *Identifier
	Default Expression // 可为 nil
}

func (p *Param) String() string {
	if p.Default != nil {
		return p.Name.Name + "=" + p.Default.String()
	}
	return p.Name.Name
}

// DefStmt 函数定义语句
type DefStmt struct {
	Def    token.Token
	Name   *Identifier
	Params []*Param
	Body   *Suite
}

func (s *DefStmt) Pos() token.Position { return s.Def.Pos }
func (s *DefStmt) End() token.Position { return s.Body.End() }
func (s *DefStmt) String() string {
	var params []string
	for _, p := range s.Params {
		params = append(params, p.String())
	}
	return "def " + s.Name.Name + "(" + strings.Join(params, ", ") + ")" + s.Body.String()
}
func (s *DefStmt) stmtNode() {}

// LoadSymbol load 语句中的一个符号绑定
//
// 本地名与模块内名可以不同：alias="name"。相同为简写形式。
type LoadSymbol struct {
	Local *Identifier    // 本地绑定名
	Orig  *StringLiteral // 模块内符号名
}

func (l *LoadSymbol) String() string {
	if l.Local.Name == string(l.Orig.Value) {
		return l.Orig.String()
	}
	return l.Local.Name + "=" + l.Orig.String()
}

// LoadStmt load 语句 (load("module", "sym", alias="orig"))
//
// 模块的定位和读取由外部协作方负责，这里只产出语法结构。
type LoadStmt struct {
	Load    token.Token
	LParen  token.Token
	Module  *StringLiteral
	Symbols []*LoadSymbol
	RParen  token.Token
}

func (s *LoadStmt) Pos() token.Position { return s.Load.Pos }
func (s *LoadStmt) End() token.Position { return token.SpanFromToken(s.RParen).End }
func (s *LoadStmt) String() string {
	parts := []string{s.Module.String()}
	for _, sym := range s.Symbols {
		parts = append(parts, sym.String())
	}
	return "load(" + strings.Join(parts, ", ") + ")"
}
func (s *LoadStmt) stmtNode() {}
