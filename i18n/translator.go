package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須フィールドが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "arity":
			return "要素数が不正です"
		case "choice_none":
			return "選択肢が指定されていません"
		case "choice_many":
			return "選択肢が複数指定されています"
		case "invalid_enum":
			return "列挙値が不正です"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "invalid_format":
			return "書式が不正です"
		case "pattern":
			return "パターンに一致しません"
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		case "schema_error":
			return "スキーマエラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required field missing"
		case "unknown_key":
			return "unknown key"
		case "duplicate_key":
			return "duplicate key"
		case "arity":
			return "wrong number of elements"
		case "choice_none":
			return "no choice selected"
		case "choice_many":
			return "more than one choice selected"
		case "invalid_enum":
			return "unknown enumerated value"
		case "tag_mismatch":
			return "tag field does not select a valid choice"
		case "not_unique":
			return "duplicate item"
		case "too_small":
			return "value too small"
		case "too_big":
			return "value too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "overflow":
			return "value out of range"
		case "invalid_format":
			return "invalid format"
		case "pattern":
			return "pattern mismatch"
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		case "unknown_type":
			return "unknown type name"
		case "schema_error":
			return "schema error"
		case "bad_option":
			return "invalid option"
		case "unresolved_reference":
			return "unresolved type reference"
		case "name_collision":
			return "generated type name collides with an existing type"
		}
	}
	return code
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
