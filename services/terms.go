package services

import (
	"regexp"
	"strings"
)

// TermIndex ist eine geordnete, nach dem Aufbau unveränderliche Referenz-Termliste.
// Sie kann ohne Locking von mehreren Goroutinen gleichzeitig gelesen werden.
type TermIndex struct {
	terms []string
	// patterns[i] ist nil für leere Terme, die nie treffen
	patterns []*regexp.Regexp
}

// NewTermIndex baut den Index und kompiliert pro Term ein wortgrenzensicheres Muster.
// Duplikate bleiben erhalten.
func NewTermIndex(terms []string) *TermIndex {
	idx := &TermIndex{
		terms:    append([]string(nil), terms...),
		patterns: make([]*regexp.Regexp, len(terms)),
	}
	for i, term := range idx.terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		idx.patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pad(term)))
	}
	return idx
}

// Len gibt die Anzahl der Terme zurück.
func (idx *TermIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.terms)
}

// Terms gibt eine Kopie der Terme in Originalreihenfolge zurück.
func (idx *TermIndex) Terms() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.terms...)
}

// Extract liefert alle Terme, die als ganze Wörter im Text vorkommen.
// Reihenfolge und Schreibweise kommen aus der Termliste, nicht aus dem Text.
func (idx *TermIndex) Extract(text string) []string {
	found := []string{}
	if idx == nil {
		return found
	}
	// Satzzeichen werden gelöscht, damit "Africa," noch als " Africa " trifft
	padded := stripPunctuation(pad(text), -1)
	for i, re := range idx.patterns {
		if re != nil && re.MatchString(padded) {
			found = append(found, strings.TrimSpace(idx.terms[i]))
		}
	}
	return found
}

// Filter entfernt alle Terme der Liste aus dem Text, in Listenreihenfolge und
// in genau einem Durchlauf über die Liste.
func (idx *TermIndex) Filter(text string) string {
	current := strings.TrimSpace(stripPunctuation(text, -1))
	if idx == nil {
		return current
	}
	for _, re := range idx.patterns {
		if re == nil {
			continue
		}
		padded := pad(current)
		if !re.MatchString(padded) {
			continue
		}
		// Der Treffer samt beider Leerzeichen fällt weg, die Nachbarwörter rücken zusammen.
		// Direkt aufeinanderfolgende Vorkommen teilen sich ein Leerzeichen; nur das erste fällt weg.
		current = strings.TrimSpace(re.ReplaceAllLiteralString(padded, ""))
	}
	return current
}

func pad(s string) string {
	return " " + s + " "
}
