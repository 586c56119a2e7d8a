// Package report turns parsed diffs into result tables and renders them.
package report

import (
	"fmt"

	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/evidence"
	"github.com/clinvar-diff-reconciler/internal/taxonomy"
)

// Resolver resolves raw category tags to display names.
type Resolver interface {
	Resolve(rawCategory, info string) (string, error)
}

var _ Resolver = (*taxonomy.Taxonomy)(nil)

// Build resolves every record of a parsed diff and assembles the added,
// deleted, changed and detailed tables. The detailed table holds the changed
// pairs whose info is not the placeholder on either side, with the prod
// (changed-from) evidence followed by the dev (changed-to) evidence.
func Build(d *domain.ParsedDiff, r Resolver) (*domain.ResultTables, error) {
	tables := domain.NewResultTables()

	for _, v := range d.Added {
		name, err := r.Resolve(v.RawCategory, v.Info)
		if err != nil {
			return nil, recordError("added", v, err)
		}
		tables.Added = append(tables.Added, name)
	}

	for _, v := range d.Deleted {
		name, err := r.Resolve(v.RawCategory, v.Info)
		if err != nil {
			return nil, recordError("deleted", v, err)
		}
		tables.Deleted = append(tables.Deleted, name)
	}

	if len(d.ChangedFrom) != len(d.ChangedTo) {
		return nil, fmt.Errorf("changed lists are not aligned: %d from, %d to", len(d.ChangedFrom), len(d.ChangedTo))
	}

	for i := range d.ChangedFrom {
		from, to := d.ChangedFrom[i], d.ChangedTo[i]

		fromName, err := r.Resolve(from.RawCategory, from.Info)
		if err != nil {
			return nil, recordError("changed from", from, err)
		}
		toName, err := r.Resolve(to.RawCategory, to.Info)
		if err != nil {
			return nil, recordError("changed to", to, err)
		}
		tables.Changed = append(tables.Changed, domain.ChangedRow{From: fromName, To: toName})

		if !from.HasEvidence() || !to.HasEvidence() {
			continue
		}

		prod, err := evidence.Extract(from.Info)
		if err != nil {
			return nil, recordError("changed from", from, err)
		}
		dev, err := evidence.Extract(to.Info)
		if err != nil {
			return nil, recordError("changed to", to, err)
		}
		tables.Detailed = append(tables.Detailed, domain.DetailedRow{
			From:      fromName,
			To:        toName,
			ClinVarID: from.ClinVarID,
			Prod:      prod,
			Dev:       dev,
		})
	}

	return tables, nil
}

func recordError(side string, v domain.VariantTuple, err error) error {
	return fmt.Errorf("%s record %s (ClinVar %s): %w", side, v.Mutation, v.ClinVarID, err)
}

// CountUnknown returns the number of "unknown" category segments across the
// added, deleted and changed tables.
func CountUnknown(t *domain.ResultTables) int {
	n := 0
	for _, c := range t.Added {
		n += taxonomy.CountUnknown(c)
	}
	for _, c := range t.Deleted {
		n += taxonomy.CountUnknown(c)
	}
	for _, r := range t.Changed {
		n += taxonomy.CountUnknown(r.From) + taxonomy.CountUnknown(r.To)
	}
	return n
}
