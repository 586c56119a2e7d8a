package domain

import (
	"strconv"
	"time"
)

// Column headers of the result tables.
const (
	ColumnAdded       = "added"
	ColumnDeleted     = "deleted"
	ColumnChangedFrom = "changed from"
	ColumnChangedTo   = "changed to"
	ColumnClinVarID   = "clinvar ID"
)

// Table names, used for file names, storage keys and summary rows.
const (
	TableAdded    = "added"
	TableDeleted  = "deleted"
	TableChanged  = "changed"
	TableDetailed = "detailed"
)

// TableNames lists the tables in output order.
var TableNames = []string{TableAdded, TableDeleted, TableChanged, TableDetailed}

// ChangedRow is one variant whose category differs between prod and dev.
type ChangedRow struct {
	From string `json:"changed_from"`
	To   string `json:"changed_to"`
}

// DetailedRow carries the evidence behind a changed variant. Prod holds the
// changed-from side and Dev the changed-to side.
type DetailedRow struct {
	From      string         `json:"changed_from"`
	To        string         `json:"changed_to"`
	ClinVarID string         `json:"clinvar_id"`
	Prod      EvidenceVector `json:"prod"`
	Dev       EvidenceVector `json:"dev"`
}

// ResultTables are the reconciled tables for one diff.
type ResultTables struct {
	Added    []string      `json:"added"`
	Deleted  []string      `json:"deleted"`
	Changed  []ChangedRow  `json:"changed"`
	Detailed []DetailedRow `json:"detailed"`
}

// NewResultTables returns tables with non-nil, empty rows so that empty
// results serialize as empty lists rather than null.
func NewResultTables() *ResultTables {
	return &ResultTables{
		Added:    []string{},
		Deleted:  []string{},
		Changed:  []ChangedRow{},
		Detailed: []DetailedRow{},
	}
}

// Columns returns the header row of the named table.
func Columns(table string) []string {
	switch table {
	case TableAdded:
		return []string{ColumnAdded}
	case TableDeleted:
		return []string{ColumnDeleted}
	case TableChanged:
		return []string{ColumnChangedFrom, ColumnChangedTo}
	case TableDetailed:
		cols := []string{ColumnChangedFrom, ColumnChangedTo, ColumnClinVarID}
		cols = append(cols, EvidenceColumns("prod")...)
		return append(cols, EvidenceColumns("dev")...)
	}
	return nil
}

// Records renders the named table as string rows, without the header.
func (t *ResultTables) Records(table string) [][]string {
	var rows [][]string
	switch table {
	case TableAdded:
		for _, c := range t.Added {
			rows = append(rows, []string{c})
		}
	case TableDeleted:
		for _, c := range t.Deleted {
			rows = append(rows, []string{c})
		}
	case TableChanged:
		for _, r := range t.Changed {
			rows = append(rows, []string{r.From, r.To})
		}
	case TableDetailed:
		for _, r := range t.Detailed {
			row := make([]string, 0, 3+2*EvidenceSlots)
			row = append(row, r.From, r.To, r.ClinVarID)
			for _, n := range r.Prod {
				row = append(row, strconv.Itoa(n))
			}
			for _, n := range r.Dev {
				row = append(row, strconv.Itoa(n))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Categories returns the category values the named table contributes to a
// per-assay summary. Changed rows contribute "from -> to".
func (t *ResultTables) Categories(table string) []string {
	switch table {
	case TableAdded:
		return t.Added
	case TableDeleted:
		return t.Deleted
	case TableChanged:
		out := make([]string, 0, len(t.Changed))
		for _, r := range t.Changed {
			out = append(out, r.From+" -> "+r.To)
		}
		return out
	case TableDetailed:
		out := make([]string, 0, len(t.Detailed))
		for _, r := range t.Detailed {
			out = append(out, r.From+" -> "+r.To)
		}
		return out
	}
	return nil
}

// AssayResult is one reconciliation run for a single assay.
type AssayResult struct {
	RunID     string        `json:"run_id"`
	Assay     string        `json:"assay"`
	Tables    *ResultTables `json:"tables"`
	Unknown   int           `json:"unknown_categories"`
	CreatedAt time.Time     `json:"created_at"`
}
