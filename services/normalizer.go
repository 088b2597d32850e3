package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLineBreaks ersetzt CRLF, Tabs und Zeilenumbrüche durch Leerzeichen.
// Die Reihenfolge ist wichtig: CRLF muss vor dem einzelnen \n ersetzt werden.
func NormalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}

// Normalize entfernt Steuerzeichen und Satzzeichen und reduziert doppelte Leerzeichen.
//
// Doppelte Leerzeichen werden in genau einem Durchlauf ersetzt: aus drei
// Leerzeichen werden zwei, aus vier ebenfalls zwei. Ein zweiter Aufruf kann
// daher noch etwas ändern.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = NormalizeLineBreaks(text)
	// NFC, damit zerlegte Akzente (a + U+0303) nicht als Satzzeichen gelten
	text = norm.NFC.String(text)
	text = stripPunctuation(text, ' ')
	text = strings.ReplaceAll(text, "  ", " ")
	return strings.TrimSpace(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// stripPunctuation ersetzt jedes Zeichen, das weder Wortzeichen noch Whitespace
// ist, durch repl. repl < 0 entfernt das Zeichen.
func stripPunctuation(text string, repl rune) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return repl
	}, text)
}
