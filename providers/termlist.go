package providers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedEncoding wird für unbekannte TERMS_ENCODING-Werte gemeldet.
var ErrUnsupportedEncoding = errors.New("unsupported term list encoding")

func decoderFor(enc string) (*encoding.Decoder, error) {
	switch strings.ToLower(enc) {
	case "latin1", "":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "utf8":
		// entfernt ein optionales BOM
		return unicode.UTF8BOM.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
	}
}

// ParseTermList liest eine einspaltige CSV-Liste, ein Term pro Zeile.
// Weitere Spalten werden ignoriert, leere Zeilen übersprungen.
func ParseTermList(r io.Reader, enc string) ([]string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(r, dec))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	terms := []string{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse term list: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		terms = append(terms, row[0])
	}
	return terms, nil
}

// EncodeTermList schreibt Terme als einspaltige CSV-Liste in der gewünschten Kodierung.
func EncodeTermList(w io.Writer, terms []string, enc string) error {
	var encoder *encoding.Encoder
	switch strings.ToLower(enc) {
	case "latin1", "":
		encoder = charmap.ISO8859_1.NewEncoder()
	case "utf8":
		encoder = encoding.Nop.NewEncoder()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
	}

	tw := transform.NewWriter(w, encoder)
	cw := csv.NewWriter(tw)
	for _, term := range terms {
		if err := cw.Write([]string{term}); err != nil {
			return fmt.Errorf("write term %q: %w", term, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}
