// Package i18n holds the user-facing texts of the bot in English and
// Russian.
package i18n

import (
	"fmt"
	"strings"

	"wishbot/internal/models"
)

// T resolves key for the language, falling back to English and then to the
// key itself. Args are applied with fmt.Sprintf.
func T(lang models.Language, key string, args ...interface{}) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	text, ok := entry[lang]
	if !ok {
		text = entry[models.LanguageEN]
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Pick returns the text matching lang.
func Pick(lang models.Language, en, ru string) string {
	if lang == models.LanguageRU {
		return ru
	}
	return en
}

// Matches reports whether text equals any translation of key.
func Matches(text, key string) bool {
	for _, v := range catalog[key] {
		if v == text {
			return true
		}
	}
	return false
}

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes user input for the legacy Markdown parse mode.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
