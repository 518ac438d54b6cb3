package skylark

import (
	"testing"

	"go.uber.org/multierr"

	"github.com/tangzhangming/skylark/ast"
	"github.com/tangzhangming/skylark/internal/errors"
)

func TestParseExpressionIntegers(t *testing.T) {
	tests := []struct {
		input string
		value int32
	}{
		{"0", 0},
		{"00000", 0},
		{"8", 8},
		{"10", 10},
		{"0o7", 7},
		{"0O7", 7},
		{"0O777", 0o777},
		{"0x7", 7},
		{"0X7", 7},
		{"0xffe", 0xffe},
	}

	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		lit, ok := expr.(*ast.IntegerLiteral)
		if !ok {
			t.Errorf("input %q: node is %T, want *ast.IntegerLiteral", tt.input, expr)
			continue
		}
		if lit.Value != tt.value {
			t.Errorf("input %q: value mismatch: got %d, want %d", tt.input, lit.Value, tt.value)
		}
	}
}

func TestParseExpressionIntegerErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"01", KindNumber},
		{"0o", KindNumber},
		{"0o8", KindNumber},
		{"2147483648", KindNumber},
		{"123abc", KindNumber},
	}

	for _, tt := range tests {
		_, err := ParseExpression(tt.input)
		if err == nil {
			t.Errorf("input %q: expected an error", tt.input)
			continue
		}
		var pe *ParseError
		for _, e := range multierr.Errors(err) {
			if p, ok := e.(*ParseError); ok {
				pe = p
				break
			}
		}
		if pe == nil {
			t.Errorf("input %q: no *ParseError in %v", tt.input, err)
			continue
		}
		if pe.Kind != tt.kind {
			t.Errorf("input %q: error kind mismatch: got %s, want %s", tt.input, pe.Kind, tt.kind)
		}
	}
}

func TestParseExpressionIdentifiers(t *testing.T) {
	accept := []string{"foo", "_foo", "__foo", "Foo", "F0ooBar"}
	for _, input := range accept {
		expr, err := ParseExpression(input)
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", input, err)
			continue
		}
		ident, ok := expr.(*ast.Identifier)
		if !ok || ident.Name != input {
			t.Errorf("input %q: got %v", input, expr)
		}
	}

	// 0x7 是整数字面量，不是标识符
	expr, err := ParseExpression("0x7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := expr.(*ast.Identifier); ok {
		t.Error("0x7 should not parse as an identifier")
	}
}

func TestParseExpressionShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"not a == b", "(not (a == b))"},
		{"a if c else b", "(a if c else b)"},
		{"[x for x in xs if x]", "[x for x in xs if x]"},
		{"{k: v for k in ks}", "{k: v for k in ks}"},
		{"a.b[1:2](x)", "a.b[1:2](x)"},
		{"(1,)", "(1,)"},
	}

	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		if got := expr.String(); got != tt.expected {
			t.Errorf("input %q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseExpressionTrailingTokens(t *testing.T) {
	_, err := ParseExpression("1 2")
	if err == nil {
		t.Fatal("expected an error for trailing tokens")
	}
}

func TestParseModule(t *testing.T) {
	src := `load("//rules", "binary")

def targets(names, prefix="//"):
    out = []
    for n in names:
        if n not in EXCLUDED:
            out += [prefix + n]
    return out

BINARIES = targets(["a", "b"])
`

	module, err := ParseModule("BUILD.sky", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module.Filename != "BUILD.sky" {
		t.Errorf("filename mismatch: got %q", module.Filename)
	}
	if len(module.Statements) != 3 {
		t.Fatalf("statement count mismatch: got %d, want 3", len(module.Statements))
	}

	if _, ok := module.Statements[0].(*ast.LoadStmt); !ok {
		t.Errorf("first statement is %T, want *ast.LoadStmt", module.Statements[0])
	}
	if _, ok := module.Statements[1].(*ast.DefStmt); !ok {
		t.Errorf("second statement is %T, want *ast.DefStmt", module.Statements[1])
	}
	if _, ok := module.Statements[2].(*ast.AssignStmt); !ok {
		t.Errorf("third statement is %T, want *ast.AssignStmt", module.Statements[2])
	}
}

func TestParseModuleReturnsPartialResult(t *testing.T) {
	// 出错时仍然返回已解析出的语句
	module, err := ParseModule("bad.sky", "x = 1\ny = = 2\nz = 3\n")

	if err == nil {
		t.Fatal("expected an error")
	}
	if module == nil {
		t.Fatal("module should be returned even on error")
	}
	if len(module.Statements) < 2 {
		t.Errorf("expected partial statements, got %d", len(module.Statements))
	}
}

func TestParseErrorFields(t *testing.T) {
	_, err := ParseModule("bad.sky", "a < b < c\n")
	if err == nil {
		t.Fatal("expected an error")
	}

	errs := multierr.Errors(err)
	if len(errs) == 0 {
		t.Fatal("expected individual errors")
	}
	pe, ok := errs[0].(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", errs[0])
	}
	if pe.Code != errors.E0203 {
		t.Errorf("error code mismatch: got %s, want %s", pe.Code, errors.E0203)
	}
	if pe.Kind != KindSyntax {
		t.Errorf("error kind mismatch: got %s", pe.Kind)
	}
	if pe.Position.Filename != "bad.sky" || pe.Position.Line != 1 {
		t.Errorf("position mismatch: %v", pe.Position)
	}
}

func TestParseConcurrent(t *testing.T) {
	// 解析没有共享状态，可以并发调用
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- true }()
			for j := 0; j < 50; j++ {
				_, err := ParseExpression("[x * 2 for x in xs if x > 0]")
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
