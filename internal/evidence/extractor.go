package evidence

import (
	"fmt"
	"strconv"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// slotByName maps ClinVar evidence names onto vector slots. Any other name
// counts toward SlotUnknown.
var slotByName = map[string]int{
	"Benign":                     domain.SlotBenign,
	"Likely_benign":              domain.SlotLikelyBenign,
	"Uncertain_significance":     domain.SlotUncertainSignificance,
	"Likely_pathogenic":          domain.SlotLikelyPathogenic,
	"Pathogenic":                 domain.SlotPathogenic,
	"Pathogenic&_low_penetrance": domain.SlotPathogenicLowPenetrance,
	"Pathogenic,_low_penetrance": domain.SlotPathogenicLowPenetrance,
}

// SlotFor returns the vector slot for an evidence name.
func SlotFor(name string) int {
	if slot, ok := slotByName[name]; ok {
		return slot
	}
	return domain.SlotUnknown
}

// Extract parses an info field into an EvidenceVector. Every entry must be
// shaped Name(count); an empty or placeholder field has no evidence at all.
// A repeated category keeps its last count rather than summing.
func Extract(info string) (domain.EvidenceVector, error) {
	if info == "" || info == domain.InfoPlaceholder {
		return domain.EvidenceVector{}, fmt.Errorf("extracting evidence from %q: %w", info, domain.ErrEmptyEvidence)
	}

	var vec domain.EvidenceVector
	for _, raw := range SplitTokens(info) {
		tok, ok := ParseToken(raw)
		if !ok {
			return domain.EvidenceVector{}, domain.NewMalformedInfoError(raw)
		}
		count, err := strconv.Atoi(tok.Count)
		if err != nil || !IsCount(tok.Count) {
			return domain.EvidenceVector{}, domain.NewFormatError(domain.ErrEvidenceCount,
				fmt.Sprintf("evidence count for %s is not a non-negative integer", tok.Name), raw)
		}
		vec[SlotFor(tok.Name)] = count
	}
	return vec, nil
}
