package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantTuple_HasBlankCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		expected bool
	}{
		{"Empty", "", true},
		{"Single space", " ", true},
		{"Benign", "Benign", false},
		{"Composite", "Benign/Likely_benign", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := VariantTuple{RawCategory: tt.category}
			assert.Equal(t, tt.expected, v.HasBlankCategory())
		})
	}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"added"}, Columns(TableAdded))
	assert.Equal(t, []string{"deleted"}, Columns(TableDeleted))
	assert.Equal(t, []string{"changed from", "changed to"}, Columns(TableChanged))

	detailed := Columns(TableDetailed)
	assert.Len(t, detailed, 17)
	assert.Equal(t, []string{"changed from", "changed to", "clinvar ID"}, detailed[:3])
	assert.Equal(t, "benign_prod", detailed[3])
	assert.Equal(t, "path_low_penetrance_prod", detailed[8])
	assert.Equal(t, "unknown_prod", detailed[9])
	assert.Equal(t, "benign_dev", detailed[10])
	assert.Equal(t, "unknown_dev", detailed[16])

	assert.Nil(t, Columns("bogus"))
}

func TestResultTables_Records(t *testing.T) {
	tables := NewResultTables()
	tables.Added = append(tables.Added, "benign")
	tables.Changed = append(tables.Changed, ChangedRow{From: "benign", To: "likely benign"})
	tables.Detailed = append(tables.Detailed, DetailedRow{
		From:      "benign",
		To:        "likely benign",
		ClinVarID: "12345",
		Prod:      EvidenceVector{1, 0, 0, 0, 0, 0, 0},
		Dev:       EvidenceVector{0, 2, 0, 0, 0, 0, 0},
	})

	assert.Equal(t, [][]string{{"benign"}}, tables.Records(TableAdded))
	assert.Nil(t, tables.Records(TableDeleted))
	assert.Equal(t, [][]string{{"benign", "likely benign"}}, tables.Records(TableChanged))

	detailed := tables.Records(TableDetailed)
	assert.Len(t, detailed, 1)
	assert.Equal(t, []string{
		"benign", "likely benign", "12345",
		"1", "0", "0", "0", "0", "0", "0",
		"0", "2", "0", "0", "0", "0", "0",
	}, detailed[0])

	assert.Equal(t, []string{"benign -> likely benign"}, tables.Categories(TableChanged))
}

func TestEvidenceVector_Total(t *testing.T) {
	v := EvidenceVector{1, 1, 2, 3, 4, 0, 0}
	assert.Equal(t, 11, v.Total())
}
