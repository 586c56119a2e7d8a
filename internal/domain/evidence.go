package domain

// Evidence vector slots. The order is fixed and shared by every table that
// carries evidence counts.
const (
	SlotBenign = iota
	SlotLikelyBenign
	SlotUncertainSignificance
	SlotLikelyPathogenic
	SlotPathogenic
	SlotPathogenicLowPenetrance
	SlotUnknown

	EvidenceSlots
)

// EvidenceVector holds per-submission counts for one record, indexed by the
// Slot constants.
type EvidenceVector [EvidenceSlots]int

// evidenceColumnStems name the slots in detailed-table column headers.
var evidenceColumnStems = [EvidenceSlots]string{
	"benign",
	"likely_benign",
	"uncertain",
	"likely_pathogenic",
	"pathogenic",
	"path_low_penetrance",
	"unknown",
}

// EvidenceColumns returns the slot column names with the given suffix,
// e.g. "benign_prod".
func EvidenceColumns(suffix string) []string {
	cols := make([]string, 0, EvidenceSlots)
	for _, stem := range evidenceColumnStems {
		cols = append(cols, stem+"_"+suffix)
	}
	return cols
}

// Total returns the sum of all slots.
func (v EvidenceVector) Total() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}
