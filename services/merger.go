package services

import "regexp"

var nonAlnumRun = regexp.MustCompile(`[^A-Za-z0-9]+`)

// MergeStrings verbindet zwei Felder zu einem Text für nachgelagerte Sprach-Skills.
// Jede Folge von Zeichen außer ASCII-Buchstaben und Ziffern wird zu einem Leerzeichen,
// das Ergebnis ist mit Leerzeichen eingerahmt.
func MergeStrings(first, second string) string {
	return " " + nonAlnumRun.ReplaceAllString(first, " ") + " " + nonAlnumRun.ReplaceAllString(second, " ") + " "
}
