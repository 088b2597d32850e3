package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinct(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "keeps first occurrence order", in: []string{"FLAMENGO", "VASCO", "FLAMENGO", "FLUMINENSE", "FLAMENGO"}, want: []string{"FLAMENGO", "VASCO", "FLUMINENSE"}},
		{name: "case sensitive", in: []string{"FLAMENGO", "Flamengo", "flamengo", "FLAMENGO"}, want: []string{"FLAMENGO", "Flamengo", "flamengo"}},
		{name: "empty strings are values", in: []string{"", "a", ""}, want: []string{"", "a"}},
		{name: "single empty string", in: []string{""}, want: []string{""}},
		{name: "empty input", in: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distinct(tt.in))
		})
	}
}

func TestMergeStrings(t *testing.T) {
	assert.Equal(t, " report 2018 27 final version  ", MergeStrings("report_2018-27", "final (version)"))
	assert.Equal(t, "    ", MergeStrings("", "-"))
	assert.Equal(t, " Na o Rubro Negra ", MergeStrings("Nação", "Rubro Negra"))
}
