package services

import (
	"errors"
	"fmt"

	"skill-hand/models"
)

// ErrTermsNotLoaded wird gemeldet, wenn noch keine Termliste geladen ist.
var ErrTermsNotLoaded = errors.New("term index not loaded")

// Skill ist die Transformation eines Endpunkts für genau einen Record.
// Der Rückgabewert landet unter data.text, ein Fehler wird zur generischen Fehlermeldung.
type Skill interface {
	Name() string
	RequiredFields() []string
	Transform(rec models.Record) (any, error)
}

type skillFunc struct {
	name      string
	required  []string
	transform func(rec models.Record) (any, error)
}

func (s skillFunc) Name() string                             { return s.name }
func (s skillFunc) RequiredFields() []string                 { return s.required }
func (s skillFunc) Transform(rec models.Record) (any, error) { return s.transform(rec) }

// textField liest ein bereits validiertes Feld als TextInput.
func textField(rec models.Record, name string) (models.TextInput, error) {
	raw, ok := rec.Field(name)
	if !ok {
		return models.TextInput{}, fmt.Errorf("field %q missing", name)
	}
	return models.ParseTextInput(raw)
}

// NewStringsCleanerSkill normalisiert data.text.
func NewStringsCleanerSkill() Skill {
	return skillFunc{
		name:     "strings-cleaner",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			in, err := textField(rec, "text")
			if err != nil {
				return nil, err
			}
			return Normalize(in.String()), nil
		},
	}
}

// NewTermsLookupSkill liefert die in data.text gefundenen Terme.
// idx ist der für diesen Batch gültige Stand der Termliste.
func NewTermsLookupSkill(idx *TermIndex) Skill {
	return skillFunc{
		name:     "terms-lookup",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			if idx == nil {
				return nil, ErrTermsNotLoaded
			}
			in, err := textField(rec, "text")
			if err != nil {
				return nil, err
			}
			return idx.Extract(NormalizeLineBreaks(in.String())), nil
		},
	}
}

// NewTermsFilterSkill entfernt die Terme der Liste aus data.text.
func NewTermsFilterSkill(idx *TermIndex) Skill {
	return skillFunc{
		name:     "terms-filter",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			if idx == nil {
				return nil, ErrTermsNotLoaded
			}
			in, err := textField(rec, "text")
			if err != nil {
				return nil, err
			}
			return idx.Filter(NormalizeLineBreaks(in.String())), nil
		},
	}
}

// NewDatesExtractorSkill liefert das erste Datum aus data.text als YYYY-MM-DD.
func NewDatesExtractorSkill(extractor *DateExtractor) Skill {
	return skillFunc{
		name:     "dates-extractor",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			in, err := textField(rec, "text")
			if err != nil {
				return nil, err
			}
			return extractor.ExtractFirst(in.String()), nil
		},
	}
}

// NewStringsDistinctSkill entfernt doppelte Einträge aus der Liste in data.text.
func NewStringsDistinctSkill() Skill {
	return skillFunc{
		name:     "strings-distinct",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			in, err := textField(rec, "text")
			if err != nil {
				return nil, err
			}
			items, err := in.Items()
			if err != nil {
				return nil, err
			}
			return Distinct(items), nil
		},
	}
}

// NewStringsMergerSkill verbindet data.string1 und data.string2.
func NewStringsMergerSkill() Skill {
	return skillFunc{
		name:     "strings-merger",
		required: []string{"string1", "string2"},
		transform: func(rec models.Record) (any, error) {
			first, err := textField(rec, "string1")
			if err != nil {
				return nil, err
			}
			second, err := textField(rec, "string2")
			if err != nil {
				return nil, err
			}
			return MergeStrings(first.String(), second.String()), nil
		},
	}
}
