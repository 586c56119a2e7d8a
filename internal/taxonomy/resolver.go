package taxonomy

import (
	"strings"

	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/evidence"
)

const segmentSeparator = "/"

// Resolve maps a raw category tag onto its canonical display name.
//
// Each "/"-separated segment resolves to the label of the first matching
// difference rule, or to "unknown". Segments are joined back with "/" in their
// original order. A segment that resolves to a conflicting-interpretations
// label instead returns "<label> <evidence>&<evidence>..." built from info,
// and the remaining segments are not considered.
func (t *Taxonomy) Resolve(rawCategory, info string) (string, error) {
	segments := strings.Split(rawCategory, segmentSeparator)
	names := make([]string, 0, len(segments))

	for _, seg := range segments {
		name := domain.UnknownCategory
		for _, rule := range t.differences {
			if !rule.Matches(seg) {
				continue
			}
			if IsConflictLabel(rule.Label) {
				return t.composite(rule.Label, info)
			}
			name = rule.Label
			break
		}
		names = append(names, name)
	}

	return strings.Join(names, segmentSeparator), nil
}

// ResolveRecord resolves the category of a variant record.
func (t *Taxonomy) ResolveRecord(v domain.VariantTuple) (string, error) {
	return t.Resolve(v.RawCategory, v.Info)
}

// composite builds the evidence-backed name for a conflicting-interpretations
// label. Evidence labels appear in rule order, each at most once.
func (t *Taxonomy) composite(label, info string) (string, error) {
	if info == domain.InfoPlaceholder {
		return "", domain.NewMalformedInfoError(info)
	}

	var names []string
	for _, raw := range evidence.SplitTokens(info) {
		tok, ok := evidence.ParseToken(raw)
		if !ok || !evidence.IsCount(tok.Count) {
			return "", domain.NewMalformedInfoError(raw)
		}
		names = append(names, tok.Name)
	}

	var found []string
	for _, rule := range t.evidence {
		for _, name := range names {
			if rule.Matches(name) {
				found = append(found, rule.Label)
				break
			}
		}
	}
	if len(found) == 0 {
		return "", domain.NewMalformedInfoError(info)
	}

	return label + " " + strings.Join(found, "&"), nil
}

// CountUnknown returns how many segments of a resolved name are "unknown".
func CountUnknown(resolved string) int {
	n := 0
	for _, seg := range strings.Split(resolved, segmentSeparator) {
		if seg == domain.UnknownCategory {
			n++
		}
	}
	return n
}
