package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:     "unexpected character '%c'",
	ErrUnterminatedString: "unterminated string",
	ErrInvalidEscape:      "invalid escape sequence '\\%c'",
	ErrInconsistentDedent: "unindent does not match any outer indentation level",

	// ========== 整数字面量 ==========
	ErrLeadingZero:     "decimal literal cannot have a leading zero: %s",
	ErrMissingDigits:   "missing digits after '%s' prefix",
	ErrInvalidDigit:    "invalid digit '%c' in %s literal",
	ErrIntegerOverflow: "integer literal overflows 32-bit signed range: %s",
	ErrNumberThenIdent: "identifier character directly follows numeric literal: %s",

	// ========== Parser ==========
	ErrUnexpectedToken:     "unexpected token: %s",
	ErrExpectedToken:       "expected %s",
	ErrExpectedExpression:  "expected expression",
	ErrComparisonChain:     "comparison operators cannot be chained",
	ErrExprTooDeep:         "expression too deeply nested",
	ErrInvalidAssignTarget: "invalid assignment target",
	ErrTrailingTokens:      "unexpected trailing tokens after expression",
	ErrExpectedIndent:      "expected an indented block",
	ErrKeywordArgOrder:     "positional argument follows keyword argument",
	ErrParamOrder:          "parameter without default follows parameter with default",
}
