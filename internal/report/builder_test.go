package report

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvar-diff-reconciler/internal/diffparse"
	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/taxonomy"
)

func loadTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.LoadFile(filepath.Join("..", "..", "config", "taxonomy.json"))
	require.NoError(t, err)
	return tax
}

func TestBuild_DeletedOnly(t *testing.T) {
	parsed, err := diffparse.Parse("18d17\n< 1:10689814:G:C 2125983 Uncertain_significance .")
	require.NoError(t, err)

	tables, err := Build(parsed, loadTaxonomy(t))

	require.NoError(t, err)
	assert.Empty(t, tables.Added)
	assert.Equal(t, []string{"uncertain significance"}, tables.Deleted)
	assert.Empty(t, tables.Changed)
	assert.Empty(t, tables.Detailed)
}

func TestBuild_BlankFromSideBecomesAdded(t *testing.T) {
	parsed, err := diffparse.Parse("7c7\n< 1:5:A:C 55  .\n---\n> 1:5:A:C 55 Likely_benign .\n")
	require.NoError(t, err)

	tables, err := Build(parsed, loadTaxonomy(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"likely benign"}, tables.Added)
	assert.Empty(t, tables.Changed)
}

func TestBuild_ChangedAndDetailed(t *testing.T) {
	parsed := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{
			{Mutation: "1:1:A:C", ClinVarID: "100", RawCategory: "Benign", Info: "."},
			{Mutation: "2:2:G:T", ClinVarID: "200", RawCategory: "Conflicting_interpretations_of_pathogenicity", Info: "Benign(2)&Pathogenic(1)"},
			{Mutation: "3:3:T:A", ClinVarID: "300", RawCategory: "Likely_benign", Info: "Likely_benign(4)"},
		},
		ChangedTo: []domain.VariantTuple{
			{Mutation: "1:1:A:C", ClinVarID: "100", RawCategory: "Likely_benign", Info: "Likely_benign(1)"},
			{Mutation: "2:2:G:T", ClinVarID: "200", RawCategory: "Pathogenic", Info: "Pathogenic(3)&Benign(2)"},
			{Mutation: "3:3:T:A", ClinVarID: "300", RawCategory: "Benign/Likely_benign", Info: "Benign(1)&Likely_benign(4)"},
		},
	}

	tables, err := Build(parsed, loadTaxonomy(t))

	require.NoError(t, err)
	assert.Equal(t, []domain.ChangedRow{
		{From: "benign", To: "likely benign"},
		{From: "conflicting interpretations of pathogenicity benign&pathogenic", To: "pathogenic"},
		{From: "likely benign", To: "benign/likely benign"},
	}, tables.Changed)

	require.Len(t, tables.Detailed, 2)
	assert.Equal(t, domain.DetailedRow{
		From:      "conflicting interpretations of pathogenicity benign&pathogenic",
		To:        "pathogenic",
		ClinVarID: "200",
		Prod:      domain.EvidenceVector{2, 0, 0, 0, 1, 0, 0},
		Dev:       domain.EvidenceVector{2, 0, 0, 0, 3, 0, 0},
	}, tables.Detailed[0])
	assert.Equal(t, "300", tables.Detailed[1].ClinVarID)
	assert.Equal(t, domain.EvidenceVector{1, 4, 0, 0, 0, 0, 0}, tables.Detailed[1].Dev)
}

func TestBuild_EmptyDetailedKeepsSchema(t *testing.T) {
	parsed := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{{RawCategory: "Benign", Info: "."}},
		ChangedTo:   []domain.VariantTuple{{RawCategory: "Pathogenic", Info: "Pathogenic(1)"}},
	}

	tables, err := Build(parsed, loadTaxonomy(t))

	require.NoError(t, err)
	assert.NotNil(t, tables.Detailed)
	assert.Empty(t, tables.Detailed)
	assert.Len(t, domain.Columns(domain.TableDetailed), 17)
}

func TestBuild_MalformedInfoAborts(t *testing.T) {
	parsed := &domain.ParsedDiff{
		Added: []domain.VariantTuple{
			{Mutation: "1:1:A:C", ClinVarID: "7", RawCategory: "Conflicting_interpretations_of_pathogenicity", Info: "."},
		},
	}

	tables, err := Build(parsed, loadTaxonomy(t))

	require.Error(t, err)
	assert.Nil(t, tables)
	assert.True(t, domain.IsMalformedInfo(err))
	assert.Contains(t, err.Error(), "1:1:A:C")
}

func TestBuild_EvidenceErrorAborts(t *testing.T) {
	parsed := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{{RawCategory: "Benign", Info: "Benign(1)"}},
		ChangedTo:   []domain.VariantTuple{{RawCategory: "Pathogenic", Info: "nothing-here"}},
	}

	_, err := Build(parsed, loadTaxonomy(t))

	require.Error(t, err)
	assert.True(t, domain.IsMalformedInfo(err))
}

func TestBuild_EmptyEvidenceAborts(t *testing.T) {
	parsed := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{{RawCategory: "Benign", Info: "Benign(1)"}},
		ChangedTo:   []domain.VariantTuple{{RawCategory: "Pathogenic", Info: ""}},
	}

	_, err := Build(parsed, loadTaxonomy(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyEvidence))
}

func TestBuild_MisalignedChanged(t *testing.T) {
	parsed := &domain.ParsedDiff{
		ChangedFrom: []domain.VariantTuple{{RawCategory: "Benign", Info: "."}},
	}

	_, err := Build(parsed, loadTaxonomy(t))

	assert.Error(t, err)
}

func TestCountUnknown(t *testing.T) {
	tables := &domain.ResultTables{
		Added:   []string{"unknown", "benign"},
		Deleted: []string{"benign/unknown"},
		Changed: []domain.ChangedRow{{From: "unknown", To: "pathogenic"}},
	}

	assert.Equal(t, 3, CountUnknown(tables))
}
