package store

import (
	"time"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func sampleResult(assay, runID string) *domain.AssayResult {
	tables := domain.NewResultTables()
	tables.Added = []string{"benign", "pathogenic"}
	tables.Deleted = []string{"uncertain significance"}
	tables.Changed = []domain.ChangedRow{
		{From: "likely benign", To: "conflicting interpretations of pathogenicity likely benign&pathogenic"},
		{From: "unknown", To: "benign"},
	}
	tables.Detailed = []domain.DetailedRow{{
		From:      "likely benign",
		To:        "conflicting interpretations of pathogenicity likely benign&pathogenic",
		ClinVarID: "2002",
		Prod:      domain.EvidenceVector{0, 2, 0, 0, 0, 0, 0},
		Dev:       domain.EvidenceVector{0, 2, 0, 0, 1, 0, 0},
	}}

	return &domain.AssayResult{
		RunID:     runID,
		Assay:     assay,
		Tables:    tables,
		Unknown:   1,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
