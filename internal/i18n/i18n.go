package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 查不到消息 ID 时原样返回，避免吞掉错误信息
	if len(args) > 0 {
		return fmt.Sprintf(msgID, args...)
	}
	return msgID
}

// ============================================================================
// 消息 ID
// ============================================================================

const (
	// ========== Lexer ==========
	ErrUnexpectedChar     = "lex.unexpected_char"
	ErrUnterminatedString = "lex.unterminated_string"
	ErrInvalidEscape      = "lex.invalid_escape"
	ErrInconsistentDedent = "lex.inconsistent_dedent"

	// ========== 整数字面量 ==========
	ErrLeadingZero     = "num.leading_zero"
	ErrMissingDigits   = "num.missing_digits"
	ErrInvalidDigit    = "num.invalid_digit"
	ErrIntegerOverflow = "num.overflow"
	ErrNumberThenIdent = "num.ident_follows"

	// ========== Parser ==========
	ErrUnexpectedToken     = "parse.unexpected_token"
	ErrExpectedToken       = "parse.expected_token"
	ErrExpectedExpression  = "parse.expected_expression"
	ErrComparisonChain     = "parse.comparison_chain"
	ErrExprTooDeep         = "parse.expr_too_deep"
	ErrInvalidAssignTarget = "parse.invalid_assign_target"
	ErrTrailingTokens      = "parse.trailing_tokens"
	ErrExpectedIndent      = "parse.expected_indent"
	ErrKeywordArgOrder     = "parse.keyword_arg_order"
	ErrParamOrder          = "parse.param_order"
)
