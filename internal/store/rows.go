// Package store persists and publishes reconciled result tables.
package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// storedRow is one table row in the flat layout shared by the SQL stores.
// Added and deleted rows only use Category.
type storedRow struct {
	Table     string
	Position  int
	Category  string
	ChangedTo string
	ClinVarID string
	Prod      string
	Dev       string
}

func flatten(t *domain.ResultTables) []storedRow {
	rows := make([]storedRow, 0, len(t.Added)+len(t.Deleted)+len(t.Changed)+len(t.Detailed))
	for i, c := range t.Added {
		rows = append(rows, storedRow{Table: domain.TableAdded, Position: i, Category: c})
	}
	for i, c := range t.Deleted {
		rows = append(rows, storedRow{Table: domain.TableDeleted, Position: i, Category: c})
	}
	for i, r := range t.Changed {
		rows = append(rows, storedRow{Table: domain.TableChanged, Position: i, Category: r.From, ChangedTo: r.To})
	}
	for i, r := range t.Detailed {
		rows = append(rows, storedRow{
			Table:     domain.TableDetailed,
			Position:  i,
			Category:  r.From,
			ChangedTo: r.To,
			ClinVarID: r.ClinVarID,
			Prod:      formatVector(r.Prod),
			Dev:       formatVector(r.Dev),
		})
	}
	return rows
}

// unflatten rebuilds tables from rows ordered by position within each table.
func unflatten(rows []storedRow) (*domain.ResultTables, error) {
	t := domain.NewResultTables()
	for _, r := range rows {
		switch r.Table {
		case domain.TableAdded:
			t.Added = append(t.Added, r.Category)
		case domain.TableDeleted:
			t.Deleted = append(t.Deleted, r.Category)
		case domain.TableChanged:
			t.Changed = append(t.Changed, domain.ChangedRow{From: r.Category, To: r.ChangedTo})
		case domain.TableDetailed:
			prod, err := parseVector(r.Prod)
			if err != nil {
				return nil, err
			}
			dev, err := parseVector(r.Dev)
			if err != nil {
				return nil, err
			}
			t.Detailed = append(t.Detailed, domain.DetailedRow{
				From:      r.Category,
				To:        r.ChangedTo,
				ClinVarID: r.ClinVarID,
				Prod:      prod,
				Dev:       dev,
			})
		default:
			return nil, fmt.Errorf("unknown stored table %q", r.Table)
		}
	}
	return t, nil
}

func formatVector(v domain.EvidenceVector) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func parseVector(s string) (domain.EvidenceVector, error) {
	var v domain.EvidenceVector
	parts := strings.Split(s, ",")
	if len(parts) != len(v) {
		return v, fmt.Errorf("stored evidence %q has %d slots, want %d", s, len(parts), len(v))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return v, fmt.Errorf("stored evidence %q: %w", s, err)
		}
		v[i] = n
	}
	return v, nil
}
