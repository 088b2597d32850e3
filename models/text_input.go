package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotSequence wird gemeldet, wenn ein Skill eine Liste erwartet.
var ErrNotSequence = errors.New("text is not a list")

// TextKind unterscheidet die erlaubten Formen von data.text.
type TextKind int

const (
	// TextScalar ist ein JSON-String.
	TextScalar TextKind = iota
	// TextLiteral ist eine Zahl oder ein Boolean.
	TextLiteral
	// TextSequence ist ein Array aus Skalaren.
	TextSequence
)

// TextInput ist der einmal an der Validierungsgrenze aufgelöste Inhalt von data.text.
type TextInput struct {
	Kind   TextKind
	scalar string
	items  []string
}

// Scalar erzeugt einen String-Input.
func Scalar(s string) TextInput {
	return TextInput{Kind: TextScalar, scalar: s}
}

// Sequence erzeugt einen Listen-Input.
func Sequence(items ...string) TextInput {
	return TextInput{Kind: TextSequence, items: items}
}

// ParseTextInput löst ein rohes JSON-Feld in ein TextInput auf.
func ParseTextInput(raw json.RawMessage) (TextInput, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return TextInput{}, fmt.Errorf("decode text: %w", err)
	}

	switch t := v.(type) {
	case string:
		return Scalar(t), nil
	case []any:
		items := make([]string, 0, len(t))
		for i, elem := range t {
			s, err := scalarString(elem)
			if err != nil {
				return TextInput{}, fmt.Errorf("text[%d]: %w", i, err)
			}
			items = append(items, s)
		}
		return Sequence(items...), nil
	default:
		s, err := scalarString(t)
		if err != nil {
			return TextInput{}, err
		}
		return TextInput{Kind: TextLiteral, scalar: s}, nil
	}
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported text value of type %T", v)
	}
}

// String liefert die kanonische Textform; Listen werden mit Leerzeichen verbunden.
func (t TextInput) String() string {
	if t.Kind == TextSequence {
		return strings.Join(t.items, " ")
	}
	return t.scalar
}

// Items liefert die Listenform. Ein einzelner String zählt als Liste mit einem Eintrag.
func (t TextInput) Items() ([]string, error) {
	switch t.Kind {
	case TextSequence:
		return t.items, nil
	case TextScalar:
		return []string{t.scalar}, nil
	default:
		return nil, fmt.Errorf("%w: got literal %q", ErrNotSequence, t.scalar)
	}
}
