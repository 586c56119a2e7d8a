package report

import (
	"sort"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// SummaryRow counts one category of one table across assays.
type SummaryRow struct {
	Table    string         `json:"table"`
	Category string         `json:"category"`
	Counts   map[string]int `json:"counts"`
}

// Summary is the per-assay pivot of several reconciliation results.
type Summary struct {
	Assays []string     `json:"assays"`
	Rows   []SummaryRow `json:"rows"`
}

// Summarize pivots results by assay: one row per (table, category) with a
// count per assay. Assays keep the order given; rows are sorted by table
// output order, then category.
func Summarize(results []*domain.AssayResult) *Summary {
	s := &Summary{Assays: []string{}, Rows: []SummaryRow{}}

	index := map[[2]string]int{}
	for _, res := range results {
		s.Assays = append(s.Assays, res.Assay)
		for _, table := range []string{domain.TableAdded, domain.TableDeleted, domain.TableChanged} {
			for _, cat := range res.Tables.Categories(table) {
				key := [2]string{table, cat}
				i, ok := index[key]
				if !ok {
					i = len(s.Rows)
					index[key] = i
					s.Rows = append(s.Rows, SummaryRow{Table: table, Category: cat, Counts: map[string]int{}})
				}
				s.Rows[i].Counts[res.Assay]++
			}
		}
	}

	order := map[string]int{}
	for i, name := range domain.TableNames {
		order[name] = i
	}
	sort.SliceStable(s.Rows, func(i, j int) bool {
		a, b := s.Rows[i], s.Rows[j]
		if a.Table != b.Table {
			return order[a.Table] < order[b.Table]
		}
		return a.Category < b.Category
	})
	return s
}

// Columns returns the summary header: table, category, then one column per
// assay.
func (s *Summary) Columns() []string {
	return append([]string{"table", "category"}, s.Assays...)
}

// Records renders the summary rows; assays without a count get 0.
func (s *Summary) Records() [][]string {
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		row := []string{r.Table, r.Category}
		for _, a := range s.Assays {
			row = append(row, itoa(r.Counts[a]))
		}
		rows = append(rows, row)
	}
	return rows
}

// Combine stacks one table from several results, prefixing each row with its
// assay.
func Combine(results []*domain.AssayResult, table string) ([]string, [][]string) {
	cols := append([]string{"assay"}, domain.Columns(table)...)
	var rows [][]string
	for _, res := range results {
		for _, rec := range res.Tables.Records(table) {
			rows = append(rows, append([]string{res.Assay}, rec...))
		}
	}
	return cols, rows
}
