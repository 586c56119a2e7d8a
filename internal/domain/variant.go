package domain

import "strings"

// InfoPlaceholder is the value the annotation tool writes when a record has
// no per-submission evidence.
const InfoPlaceholder = "."

// UnknownCategory is the label given to a category segment that matches no
// taxonomy rule. It is a value, never an error.
const UnknownCategory = "unknown"

// VariantTuple is one annotated ClinVar record taken from a diff payload line.
type VariantTuple struct {
	Mutation    string `json:"mutation"`     // chrom:pos:ref:alt
	ClinVarID   string `json:"clinvar_id"`
	RawCategory string `json:"raw_category"` // may be a "/"-joined composite
	Info        string `json:"info"`         // "." or "&"-joined Name(count) tokens
}

// HasBlankCategory reports whether the record carries no category at all.
func (v VariantTuple) HasBlankCategory() bool {
	return v.RawCategory == "" || v.RawCategory == " "
}

// HasEvidence reports whether the info field holds evidence tokens.
func (v VariantTuple) HasEvidence() bool {
	return v.Info != InfoPlaceholder
}

// String renders the tuple back into its payload form.
func (v VariantTuple) String() string {
	return strings.Join([]string{v.Mutation, v.ClinVarID, v.RawCategory, v.Info}, " ")
}

// RawDiff holds the payloads of a tokenized diff, prefix markers stripped.
// ChangedFrom and ChangedTo are index-aligned.
type RawDiff struct {
	Added       []string
	Deleted     []string
	ChangedFrom []string
	ChangedTo   []string
}

// ParsedDiff is a RawDiff whose payloads have been split into records.
// ChangedFrom and ChangedTo are index-aligned.
type ParsedDiff struct {
	Added       []VariantTuple
	Deleted     []VariantTuple
	ChangedFrom []VariantTuple
	ChangedTo   []VariantTuple
}
