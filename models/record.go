package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidBatch wird zurückgegeben, wenn der Body keine Batch-Struktur enthält.
var ErrInvalidBatch = errors.New("invalid batch")

// Batch ist die Anfrage eines Skill-Aufrufs: {"values": [...]}.
type Batch struct {
	Values []Record `json:"values"`
}

// Record ist eine einzelne Arbeitseinheit eines Batches.
// RecordID bleibt roh, damit sie unverändert zurückgegeben wird.
type Record struct {
	RecordID json.RawMessage
	Data     map[string]json.RawMessage
}

// HasID meldet, ob der Record eine verwertbare recordId trägt.
func (r Record) HasID() bool {
	return len(r.RecordID) > 0 && !isNull(r.RecordID)
}

// Field liefert ein Feld aus data; null gilt als nicht vorhanden.
func (r Record) Field(name string) (json.RawMessage, bool) {
	v, ok := r.Data[name]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

// UnmarshalJSON akzeptiert beliebige Elemente. Alles, was kein Objekt ist,
// wird zu einem Record ohne ID und später verworfen.
func (r *Record) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return nil
	}
	if id, ok := fields["recordId"]; ok && !isNull(id) {
		r.RecordID = id
	}
	if raw, ok := fields["data"]; ok {
		var data map[string]json.RawMessage
		if err := json.Unmarshal(raw, &data); err == nil && data != nil {
			r.Data = data
		}
	}
	return nil
}

// ParseBatch dekodiert den Request-Body. Nur hier kann ein ganzer Aufruf scheitern.
func ParseBatch(body []byte) (*Batch, error) {
	var envelope struct {
		Values json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	trimmed := bytes.TrimSpace(envelope.Values)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: 'values' array is required", ErrInvalidBatch)
	}
	var batch Batch
	if err := json.Unmarshal(trimmed, &batch.Values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return &batch, nil
}

// Message ist ein einzelner Fehlereintrag eines OutputRecords.
type Message struct {
	Message string `json:"message"`
}

// OutputRecord ist das Ergebnis zu genau einem Record.
// Data ist nil bei Verarbeitungsfehlern und eine leere Map bei Validierungsfehlern.
type OutputRecord struct {
	RecordID json.RawMessage `json:"recordId"`
	Data     any             `json:"data,omitempty"`
	Errors   []Message       `json:"errors,omitempty"`
}

// Failed meldet, ob der Record mit Fehlern beantwortet wurde.
func (o OutputRecord) Failed() bool {
	return len(o.Errors) > 0
}

// Response ist die Antwort eines Skill-Aufrufs.
type Response struct {
	Values []OutputRecord `json:"values"`
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
