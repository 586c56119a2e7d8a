package diffparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func TestSplitRecord(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected domain.VariantTuple
	}{
		{
			name:    "Placeholder info",
			payload: "1:10689814:G:C 2125983 Uncertain_significance .",
			expected: domain.VariantTuple{
				Mutation: "1:10689814:G:C", ClinVarID: "2125983",
				RawCategory: "Uncertain_significance", Info: ".",
			},
		},
		{
			name:    "Evidence info",
			payload: "7:117559590:ATCT:A 7105 Conflicting_interpretations_of_pathogenicity Benign(1)&Pathogenic(3)",
			expected: domain.VariantTuple{
				Mutation: "7:117559590:ATCT:A", ClinVarID: "7105",
				RawCategory: "Conflicting_interpretations_of_pathogenicity", Info: "Benign(1)&Pathogenic(3)",
			},
		},
		{
			name:    "Blank category",
			payload: "1:1:A:T 9  .",
			expected: domain.VariantTuple{
				Mutation: "1:1:A:T", ClinVarID: "9", RawCategory: "", Info: ".",
			},
		},
		{
			name:    "Extra tokens dropped",
			payload: "1:1:A:T 9 Benign . extra more",
			expected: domain.VariantTuple{
				Mutation: "1:1:A:T", ClinVarID: "9", RawCategory: "Benign", Info: ".",
			},
		},
		{
			name:     "Short payload",
			payload:  "1:1:A:T 9",
			expected: domain.VariantTuple{Mutation: "1:1:A:T", ClinVarID: "9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitRecord(tt.payload))
		})
	}
}

func TestReclassify(t *testing.T) {
	d := &domain.ParsedDiff{
		Added:   []domain.VariantTuple{{Mutation: "a0", RawCategory: "Benign"}},
		Deleted: []domain.VariantTuple{{Mutation: "d0", RawCategory: "Benign"}},
		ChangedFrom: []domain.VariantTuple{
			{Mutation: "c1", RawCategory: " "},
			{Mutation: "c2", RawCategory: "Benign"},
			{Mutation: "c3", RawCategory: "Pathogenic"},
			{Mutation: "c4", RawCategory: ""},
			{Mutation: "c5", RawCategory: "Likely_benign"},
		},
		ChangedTo: []domain.VariantTuple{
			{Mutation: "c1", RawCategory: "Pathogenic"},
			{Mutation: "c2", RawCategory: "Likely_benign"},
			{Mutation: "c3", RawCategory: ""},
			{Mutation: "c4", RawCategory: "Benign"},
			{Mutation: "c5", RawCategory: "Benign"},
		},
	}

	moved := Reclassify(d)

	assert.Equal(t, 3, moved)
	assert.Equal(t, []string{"a0", "c1", "c4"}, mutations(d.Added))
	assert.Equal(t, "Pathogenic", d.Added[1].RawCategory)
	assert.Equal(t, []string{"d0", "c3"}, mutations(d.Deleted))
	assert.Equal(t, "Pathogenic", d.Deleted[1].RawCategory)
	assert.Equal(t, []string{"c2", "c5"}, mutations(d.ChangedFrom))
	assert.Equal(t, []string{"c2", "c5"}, mutations(d.ChangedTo))
}

func TestReclassify_BothSidesBlank(t *testing.T) {
	d := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{{Mutation: "x", RawCategory: ""}},
		ChangedTo:   []domain.VariantTuple{{Mutation: "x", RawCategory: " "}},
	}

	Reclassify(d)

	assert.Len(t, d.Added, 1)
	assert.Empty(t, d.Deleted)
	assert.Empty(t, d.ChangedFrom)
	assert.Empty(t, d.ChangedTo)
}

func TestParse(t *testing.T) {
	diff := "7c7\n< 1:5:A:C 55  .\n---\n> 1:5:A:C 55 Likely_benign .\n"

	parsed, err := Parse(diff)

	require.NoError(t, err)
	require.Len(t, parsed.Added, 1)
	assert.Equal(t, "Likely_benign", parsed.Added[0].RawCategory)
	assert.Empty(t, parsed.ChangedFrom)
	assert.Empty(t, parsed.ChangedTo)
}

func mutations(vs []domain.VariantTuple) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Mutation)
	}
	return out
}
