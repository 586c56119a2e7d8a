package diffparse

import (
	"strings"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

const recordFields = 4

// SplitRecord splits a payload on single spaces into a VariantTuple. Tokens
// past the fourth are dropped and missing tokens are left empty; field values
// are not validated here.
func SplitRecord(payload string) domain.VariantTuple {
	var fields [recordFields]string
	copy(fields[:], strings.SplitN(payload, " ", recordFields+1))

	return domain.VariantTuple{
		Mutation:    fields[0],
		ClinVarID:   fields[1],
		RawCategory: fields[2],
		Info:        fields[3],
	}
}

func splitAll(payloads []string) []domain.VariantTuple {
	out := make([]domain.VariantTuple, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, SplitRecord(p))
	}
	return out
}

// SplitAll splits every payload of a RawDiff, keeping the changed lists
// index-aligned.
func SplitAll(raw *domain.RawDiff) *domain.ParsedDiff {
	return &domain.ParsedDiff{
		Added:       splitAll(raw.Added),
		Deleted:     splitAll(raw.Deleted),
		ChangedFrom: splitAll(raw.ChangedFrom),
		ChangedTo:   splitAll(raw.ChangedTo),
	}
}

// Reclassify re-files degenerate changes. A changed pair whose from-side has a
// blank category is an add of the to-side; otherwise a pair whose to-side has a
// blank category is a delete of the from-side. It returns the number of pairs
// re-filed.
func Reclassify(d *domain.ParsedDiff) int {
	n := min(len(d.ChangedFrom), len(d.ChangedTo))

	from := make([]domain.VariantTuple, 0, n)
	to := make([]domain.VariantTuple, 0, n)
	moved := 0

	for i := 0; i < n; i++ {
		switch {
		case d.ChangedFrom[i].HasBlankCategory():
			d.Added = append(d.Added, d.ChangedTo[i])
			moved++
		case d.ChangedTo[i].HasBlankCategory():
			d.Deleted = append(d.Deleted, d.ChangedFrom[i])
			moved++
		default:
			from = append(from, d.ChangedFrom[i])
			to = append(to, d.ChangedTo[i])
		}
	}

	d.ChangedFrom = from
	d.ChangedTo = to
	return moved
}

// Parse tokenizes diff text, splits the payloads and re-files degenerate
// changes.
func Parse(diff string) (*domain.ParsedDiff, error) {
	raw, err := TokenizeString(diff)
	if err != nil {
		return nil, err
	}
	parsed := SplitAll(raw)
	Reclassify(parsed)
	return parsed, nil
}
