package lexer

import (
	"bytes"
	"testing"

	"github.com/tangzhangming/skylark/internal/errors"
	"github.com/tangzhangming/skylark/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `+ - * / // % & | == != < <= > >= = += -= *= /= //= %= ( ) [ ] { } , . : ;`

	expected := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.SLASH_SLASH, token.PERCENT,
		token.BIT_AND, token.BIT_OR,
		token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE,
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.SLASH_SLASH_ASSIGN, token.PERCENT_ASSIGN,
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
		token.LBRACE, token.RBRACE,
		token.COMMA, token.DOT, token.COLON, token.SEMICOLON,
		token.NEWLINE, token.EOF,
	}

	l := New(input, "test.sky")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `and or not in if elif else for def return break continue pass load`

	expected := []token.TokenType{
		token.AND, token.OR, token.NOT, token.IN,
		token.IF, token.ELIF, token.ELSE, token.FOR,
		token.DEF, token.RETURN, token.BREAK, token.CONTINUE, token.PASS,
		token.LOAD,
		token.NEWLINE, token.EOF,
	}

	l := New(input, "test.sky")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	// 大小写敏感，关键词的变体是普通标识符
	input := `x foo _bar baz_9 If AND True False None`

	l := New(input, "test.sky")
	tokens := l.ScanTokens()

	names := []string{"x", "foo", "_bar", "baz_9", "If", "AND", "True", "False", "None"}
	for i, name := range names {
		if tokens[i].Type != token.IDENT {
			t.Errorf("token[%d] type mismatch: got %s, want IDENT", i, tokens[i].Type)
		}
		if tokens[i].Literal != name {
			t.Errorf("token[%d] literal mismatch: got %q, want %q", i, tokens[i].Literal, name)
		}
	}
}

// ============================================================================
// 整数字面量
// ============================================================================

func TestLexerIntegerLiterals(t *testing.T) {
	tests := []struct {
		input string
		value int32
	}{
		{"0", 0},
		{"00000", 0},
		{"8", 8},
		{"10", 10},
		{"42", 42},
		{"2147483647", 2147483647},
		{"0o7", 7},
		{"0O7", 7},
		{"0o17", 15},
		{"0O777", 511},
		{"0x7", 7},
		{"0X7", 7},
		{"0xffe", 4094},
		{"0XFFE", 4094},
		{"0x7FFFFFFF", 2147483647},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.sky")
		tok := l.NextToken()

		if l.HasErrors() {
			t.Errorf("input %q: unexpected errors: %v", tt.input, l.Errors())
			continue
		}
		if tok.Type != token.INT {
			t.Errorf("input %q: token type mismatch: got %s, want INT", tt.input, tok.Type)
			continue
		}
		value, ok := tok.Value.(int32)
		if !ok {
			t.Errorf("input %q: value is %T, want int32", tt.input, tok.Value)
			continue
		}
		if value != tt.value {
			t.Errorf("input %q: value mismatch: got %d, want %d", tt.input, value, tt.value)
		}
	}
}

func TestLexerIntegerErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"01", errors.E0100},
		{"0010", errors.E0100},
		{"012345", errors.E0100},
		{"0o", errors.E0101},
		{"0x", errors.E0101},
		{"0Xzzz", errors.E0101},
		{"0o8", errors.E0102},
		{"0o19", errors.E0102},
		{"2147483648", errors.E0103},
		{"0x80000000", errors.E0103},
		{"0o20000000000", errors.E0103},
		{"99999999999999999999", errors.E0103},
		{"123abc", errors.E0104},
		{"1x", errors.E0104},
		{"0xffg", errors.E0104},
		{"0o7_", errors.E0104},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.sky")
		tok := l.NextToken()

		if tok.Type != token.ILLEGAL {
			t.Errorf("input %q: token type mismatch: got %s, want ILLEGAL", tt.input, tok.Type)
			continue
		}
		if !l.HasErrors() {
			t.Errorf("input %q: expected a lex error", tt.input)
			continue
		}
		if got := l.Errors()[0].Code; got != tt.code {
			t.Errorf("input %q: error code mismatch: got %s, want %s", tt.input, got, tt.code)
		}
	}
}

func TestLexerNumberThenIdentConsumesWholeRun(t *testing.T) {
	// "123abc" 整体作为一个非法字元消费，后面不再产生残余 token
	l := New("123abc + 1", "test.sky")
	tokens := l.ScanTokens()

	expected := []token.TokenType{token.ILLEGAL, token.PLUS, token.INT, token.NEWLINE, token.EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

// ============================================================================
// 字符串字面量
// ============================================================================

func TestLexerStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		value []byte
	}{
		{`"hello"`, []byte("hello")},
		{`'hello'`, []byte("hello")},
		{`""`, []byte{}},
		{`"a\nb"`, []byte("a\nb")},
		{`"a\tb"`, []byte("a\tb")},
		{`"a\rb"`, []byte("a\rb")},
		{`"\\"`, []byte(`\`)},
		{`"\""`, []byte(`"`)},
		{`'\''`, []byte(`'`)},
		{`"it's"`, []byte("it's")},
		{`'say "hi"'`, []byte(`say "hi"`)},
		{`"\0"`, []byte{0}},
		{`"\x41\x42"`, []byte("AB")},
		{`"\xff"`, []byte{0xff}},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.sky")
		tok := l.NextToken()

		if l.HasErrors() {
			t.Errorf("input %q: unexpected errors: %v", tt.input, l.Errors())
			continue
		}
		if tok.Type != token.STRING {
			t.Errorf("input %q: token type mismatch: got %s, want STRING", tt.input, tok.Type)
			continue
		}
		value, ok := tok.Value.([]byte)
		if !ok {
			t.Errorf("input %q: value is %T, want []byte", tt.input, tok.Value)
			continue
		}
		if !bytes.Equal(value, tt.value) {
			t.Errorf("input %q: value mismatch: got %q, want %q", tt.input, value, tt.value)
		}
	}
}

func TestLexerStringErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{`"abc`, errors.E0002},
		{"\"abc\ndef\"", errors.E0002},
		{`"abc\`, errors.E0002},
		{`"a\qb"`, errors.E0003},
		{`"\x4g"`, errors.E0003},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.sky")
		tok := l.NextToken()

		if tok.Type != token.ILLEGAL {
			t.Errorf("input %q: token type mismatch: got %s, want ILLEGAL", tt.input, tok.Type)
			continue
		}
		if !l.HasErrors() || l.Errors()[0].Code != tt.code {
			t.Errorf("input %q: expected error code %s, got %v", tt.input, tt.code, l.Errors())
		}
	}
}

// ============================================================================
// 缩进与布局
// ============================================================================

func collectTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func assertTypes(t *testing.T, input string, expected []token.TokenType) {
	t.Helper()

	l := New(input, "test.sky")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	got := collectTypes(tokens)
	if len(got) != len(expected) {
		t.Fatalf("token count mismatch: got %d (%v), want %d", len(got), got, len(expected))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, got[i], expected[i])
		}
	}
}

func TestLexerIndentation(t *testing.T) {
	input := "if x:\n    pass\n"

	assertTypes(t, input, []token.TokenType{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT,
		token.EOF,
	})
}

func TestLexerNestedIndentation(t *testing.T) {
	input := "if a:\n  if b:\n    pass\n  pass\npass\n"

	assertTypes(t, input, []token.TokenType{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.PASS, token.NEWLINE,
		token.EOF,
	})
}

func TestLexerDedentAtEOF(t *testing.T) {
	// 文件尾没有换行：补发 NEWLINE，随后弹出所有缩进层级
	input := "if a:\n  if b:\n    pass"

	assertTypes(t, input, []token.TokenType{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.DEDENT,
		token.EOF,
	})
}

func TestLexerBlankLinesIgnored(t *testing.T) {
	input := "if x:\n\n    # comment only\n\n    pass\n"

	assertTypes(t, input, []token.TokenType{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT,
		token.EOF,
	})
}

func TestLexerImplicitLineJoining(t *testing.T) {
	// 括号内的换行不产生布局 token
	input := "f(\n    1,\n    2,\n)\n"

	assertTypes(t, input, []token.TokenType{
		token.IDENT, token.LPAREN,
		token.INT, token.COMMA,
		token.INT, token.COMMA,
		token.RPAREN, token.NEWLINE,
		token.EOF,
	})
}

func TestLexerInconsistentDedent(t *testing.T) {
	input := "if a:\n    pass\n  pass\n"

	l := New(input, "test.sky")
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an inconsistent dedent error")
	}
	if got := l.Errors()[0].Code; got != errors.E0004 {
		t.Errorf("error code mismatch: got %s, want %s", got, errors.E0004)
	}
}

func TestLexerTabIndentation(t *testing.T) {
	// Tab 对齐到 8 列，比 4 空格更深
	input := "if a:\n    pass\n"
	tabbed := "if a:\n\tpass\n"

	for _, src := range []string{input, tabbed} {
		assertTypes(t, src, []token.TokenType{
			token.IF, token.IDENT, token.COLON, token.NEWLINE,
			token.INDENT, token.PASS, token.NEWLINE,
			token.DEDENT,
			token.EOF,
		})
	}
}

func TestLexerComments(t *testing.T) {
	input := "x = 1  # trailing comment\n# full line\ny = 2\n"

	assertTypes(t, input, []token.TokenType{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	})
}

// ============================================================================
// 位置信息
// ============================================================================

func TestLexerPositions(t *testing.T) {
	input := "foo = 42\nbar = 7\n"

	l := New(input, "test.sky")
	tokens := l.ScanTokens()

	checks := []struct {
		index  int
		line   int
		column int
	}{
		{0, 1, 1}, // foo
		{1, 1, 5}, // =
		{2, 1, 7}, // 42
		{4, 2, 1}, // bar
		{6, 2, 7}, // 7
	}
	for _, c := range checks {
		pos := tokens[c.index].Pos
		if pos.Line != c.line || pos.Column != c.column {
			t.Errorf("token[%d] %q position mismatch: got %d:%d, want %d:%d",
				c.index, tokens[c.index].Literal, pos.Line, pos.Column, c.line, c.column)
		}
		if pos.Filename != "test.sky" {
			t.Errorf("token[%d] filename mismatch: got %q", c.index, pos.Filename)
		}
	}
}
