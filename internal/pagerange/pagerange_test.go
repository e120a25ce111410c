package pagerange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pdfdesk/internal/operr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		maxPage int
		want    []int
	}{
		{"single page", "3", 5, []int{2}},
		{"simple range", "1-3", 5, []int{0, 1, 2}},
		{"mixed tokens", "1-3,5,7-9", 10, []int{0, 1, 2, 4, 6, 7, 8}},
		{"first occurrence wins", "3,1-3", 5, []int{2, 0, 1}},
		{"duplicates collapse", "1,1,1", 5, []int{0}},
		{"overlapping ranges", "1-4,3-5", 5, []int{0, 1, 2, 3, 4}},
		{"outer whitespace trimmed", " 2 , 4 ", 5, []int{1, 3}},
		{"empty segments skipped", "1,,2", 5, []int{0, 1}},
		{"empty expression", "", 10, nil},
		{"whitespace only", "   ", 10, nil},
		{"full document", "1-10", 10, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"last page boundary", "10", 10, []int{9}},
		{"single page span", "4-4", 5, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.maxPage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		maxPage int
		kind    operr.Kind
	}{
		{"range above max", "1-11", 10, operr.KindOutOfBounds},
		{"page zero", "0", 10, operr.KindOutOfBounds},
		{"page above max", "11", 10, operr.KindOutOfBounds},
		{"zero range start", "0-3", 10, operr.KindOutOfBounds},
		{"inverted range", "5-2", 10, operr.KindOutOfBounds},
		{"non-numeric range start", "a-3", 5, operr.KindMalformed},
		{"non-numeric range end", "1-b", 5, operr.KindMalformed},
		{"non-numeric page", "x", 5, operr.KindMalformed},
		{"decimal page", "1.5", 5, operr.KindMalformed},
		{"negative page", "-3", 5, operr.KindMalformed},
		{"double dash", "1-2-3", 5, operr.KindMalformed},
		{"inner whitespace", "1 - 3", 5, operr.KindMalformed},
		{"bad token after good", "1,x", 5, operr.KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.maxPage)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, operr.IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestParseErrorNamesToken(t *testing.T) {
	_, err := Parse("1-3,99-120", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"99-120"`)
	assert.True(t, operr.IsKind(err, operr.KindOutOfBounds))
}
