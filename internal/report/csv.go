package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTable writes one result table as CSV.
func WriteTable(w io.Writer, tables *domain.ResultTables, table string) error {
	return WriteCSV(w, domain.Columns(table), tables.Records(table))
}

// TableFileName is the CSV file name for an assay's table.
func TableFileName(assay, table string) string {
	return fmt.Sprintf("%s_%s.csv", assay, table)
}

// WriteAssayFiles writes the four tables of a result into dir as
// <assay>_<table>.csv and returns the paths written.
func WriteAssayFiles(dir string, res *domain.AssayResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(domain.TableNames))
	for _, table := range domain.TableNames {
		path := filepath.Join(dir, TableFileName(res.Assay, table))
		if err := writeFile(path, func(w io.Writer) error {
			return WriteTable(w, res.Tables, table)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteSummaryFile writes summary.csv and one combined detailed table into
// dir.
func WriteSummaryFile(dir string, results []*domain.AssayResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	summary := Summarize(results)
	summaryPath := filepath.Join(dir, "summary.csv")
	if err := writeFile(summaryPath, func(w io.Writer) error {
		return WriteCSV(w, summary.Columns(), summary.Records())
	}); err != nil {
		return nil, err
	}

	cols, rows := Combine(results, domain.TableDetailed)
	detailPath := filepath.Join(dir, "detailed.csv")
	if err := writeFile(detailPath, func(w io.Writer) error {
		return WriteCSV(w, cols, rows)
	}); err != nil {
		return []string{summaryPath}, err
	}

	return []string{summaryPath, detailPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
