package i18n

var messagesZH = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:     "意外的字符 '%c'",
	ErrUnterminatedString: "未闭合的字符串",
	ErrInvalidEscape:      "无效的转义序列 '\\%c'",
	ErrInconsistentDedent: "反缩进与任何外层缩进级别都不匹配",

	// ========== 整数字面量 ==========
	ErrLeadingZero:     "十进制字面量不能有前导零: %s",
	ErrMissingDigits:   "'%s' 前缀后缺少数字",
	ErrInvalidDigit:    "%[2]s字面量中有无效数字 '%[1]c'",
	ErrIntegerOverflow: "整数字面量超出 32 位有符号范围: %s",
	ErrNumberThenIdent: "数字字面量后直接跟标识符字符: %s",

	// ========== Parser ==========
	ErrUnexpectedToken:     "意外的 token: %s",
	ErrExpectedToken:       "期望 %s",
	ErrExpectedExpression:  "期望表达式",
	ErrComparisonChain:     "比较运算符不能链式使用",
	ErrExprTooDeep:         "表达式嵌套过深",
	ErrInvalidAssignTarget: "无效的赋值目标",
	ErrTrailingTokens:      "表达式之后有多余的 token",
	ErrExpectedIndent:      "期望一个缩进块",
	ErrKeywordArgOrder:     "位置实参出现在关键字实参之后",
	ErrParamOrder:          "无默认值的形参出现在有默认值的形参之后",
}
