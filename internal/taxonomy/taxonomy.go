// Package taxonomy maps raw ClinVar significance tags onto canonical display
// names using an ordered, JSON-configured set of regular expressions.
package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// Top-level keys of the taxonomy document
const (
	KeyDifference = "difference_regex"
	KeyEvidence   = "evidence_regex"
)

// conflictPrefixes mark the canonical labels whose display name is built from
// the evidence in the info field rather than taken as is.
var conflictPrefixes = []string{
	"conflicting interpretations",
	"conflicting classifications",
}

// Rule pairs a canonical label with the pattern a raw value must match from
// its first character.
type Rule struct {
	Label   string
	Source  string
	Pattern *regexp.Regexp
}

// Matches reports whether s matches the rule starting at its first character.
func (r Rule) Matches(s string) bool {
	return r.Pattern.MatchString(s)
}

// Taxonomy is an immutable, ordered rule set. Rule order is match precedence:
// the first difference rule to match a segment wins, and evidence rules fix
// the left-to-right order of composite names. A Taxonomy is safe for
// concurrent use.
type Taxonomy struct {
	differences []Rule
	evidence    []Rule
}

// New builds a Taxonomy from ordered label/pattern pairs.
func New(differences, evidence [][2]string) (*Taxonomy, error) {
	diff, err := compileRules(KeyDifference, differences)
	if err != nil {
		return nil, err
	}
	ev, err := compileRules(KeyEvidence, evidence)
	if err != nil {
		return nil, err
	}
	return &Taxonomy{differences: diff, evidence: ev}, nil
}

// Load reads a taxonomy JSON document, preserving the key order of both
// mappings.
func Load(r io.Reader) (*Taxonomy, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, domain.NewConfigError("taxonomy", err.Error())
	}

	var differences, evidence [][2]string
	seen := map[string]bool{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, domain.NewConfigError("taxonomy", fmt.Sprintf("reading key: %v", err))
		}
		key, _ := tok.(string)

		switch key {
		case KeyDifference, KeyEvidence:
			pairs, err := decodeOrderedMapping(dec)
			if err != nil {
				return nil, domain.NewConfigError(key, err.Error())
			}
			if key == KeyDifference {
				differences = pairs
			} else {
				evidence = pairs
			}
			seen[key] = true
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, domain.NewConfigError(key, fmt.Sprintf("reading value: %v", err))
			}
		}
	}

	for _, key := range []string{KeyDifference, KeyEvidence} {
		if !seen[key] {
			return nil, domain.NewConfigError(key, "required mapping is missing")
		}
	}

	return New(differences, evidence)
}

// LoadFile reads a taxonomy JSON document from disk.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening taxonomy: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return t, nil
}

// DifferenceLabels returns the canonical category labels in precedence order.
func (t *Taxonomy) DifferenceLabels() []string {
	return labels(t.differences)
}

// EvidenceLabels returns the evidence labels in composite order.
func (t *Taxonomy) EvidenceLabels() []string {
	return labels(t.evidence)
}

// IsConflictLabel reports whether a canonical label is resolved from evidence.
func IsConflictLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, p := range conflictPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func labels(rules []Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Label)
	}
	return out
}

func compileRules(key string, pairs [][2]string) ([]Rule, error) {
	if len(pairs) == 0 {
		return nil, domain.NewConfigError(key, "mapping must not be empty")
	}

	rules := make([]Rule, 0, len(pairs))
	for _, p := range pairs {
		// Anchor at the start only: a match must begin at the first character
		// but need not consume the whole value.
		re, err := regexp.Compile(`^(?:` + p[1] + `)`)
		if err != nil {
			return nil, domain.NewConfigError(key, fmt.Sprintf("invalid pattern for %q: %v", p[0], err))
		}
		rules = append(rules, Rule{Label: p[0], Source: p[1], Pattern: re})
	}
	return rules, nil
}

func decodeOrderedMapping(dec *json.Decoder) ([][2]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var pairs [][2]string
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading label: %w", err)
		}
		label, _ := tok.(string)

		var pattern string
		if err := dec.Decode(&pattern); err != nil {
			return nil, fmt.Errorf("pattern for %q must be a string: %w", label, err)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate label %q", label)
		}
		seen[label] = true
		pairs = append(pairs, [2]string{label, pattern})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return pairs, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("expected %q, got end of input", want)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
