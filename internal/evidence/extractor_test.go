package evidence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		info     string
		expected domain.EvidenceVector
	}{
		{
			name:     "All core categories",
			info:     "Benign(1)&Likely_benign(1)&Uncertain_significance(2)&Likely_pathogenic(3)&Pathogenic(4)",
			expected: domain.EvidenceVector{1, 1, 2, 3, 4, 0, 0},
		},
		{
			name:     "Sparse categories",
			info:     "Benign(111)&Likely_pathogenic(31)&Pathogenic(46)",
			expected: domain.EvidenceVector{111, 0, 0, 31, 46, 0, 0},
		},
		{
			name:     "Low penetrance compound name",
			info:     "Pathogenic(2)&Pathogenic&_low_penetrance(5)",
			expected: domain.EvidenceVector{0, 0, 0, 0, 2, 5, 0},
		},
		{
			name:     "Unrecognized name goes to unknown",
			info:     "Benign(1)&risk_factor(7)",
			expected: domain.EvidenceVector{1, 0, 0, 0, 0, 0, 7},
		},
		{
			name:     "Unknown slot keeps last write",
			info:     "drug_response(3)&risk_factor(7)&other(2)",
			expected: domain.EvidenceVector{0, 0, 0, 0, 0, 0, 2},
		},
		{
			name:     "Zero counts",
			info:     "Benign(0)&Pathogenic(0)",
			expected: domain.EvidenceVector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := Extract(tt.info)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, vec)
		})
	}
}

// Two submissions in one category keep only the last count. This mirrors the
// upstream report and may under-count; it is kept deliberately.
func TestExtract_RepeatedCategoryLastWriteWins(t *testing.T) {
	vec, err := Extract("Benign(2)&Benign(5)")

	require.NoError(t, err)
	assert.Equal(t, 5, vec[domain.SlotBenign])
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name      string
		info      string
		wantEmpty bool
		wantCode  string
	}{
		{name: "Placeholder", info: ".", wantEmpty: true},
		{name: "Empty", info: "", wantEmpty: true},
		{name: "No parenthesised counts", info: "Benign&Pathogenic", wantCode: domain.ErrMalformedInfo},
		{name: "Malformed entry among valid ones", info: "Benign(1)&junk&Pathogenic(2)", wantCode: domain.ErrMalformedInfo},
		{name: "Trailing separator", info: "Benign(1)&", wantCode: domain.ErrMalformedInfo},
		{name: "Non-numeric count", info: "Benign(x)", wantCode: domain.ErrEvidenceCount},
		{name: "Negative count", info: "Benign(-1)", wantCode: domain.ErrEvidenceCount},
		{name: "Signed count", info: "Benign(+3)", wantCode: domain.ErrEvidenceCount},
		{name: "Empty count", info: "Benign()", wantCode: domain.ErrEvidenceCount},
		{name: "Overflowing count", info: "Benign(99999999999999999999999)", wantCode: domain.ErrEvidenceCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.info)
			require.Error(t, err)
			if tt.wantEmpty {
				assert.True(t, errors.Is(err, domain.ErrEmptyEvidence))
				return
			}
			var fe *domain.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantCode, fe.Code)
		})
	}
}

func TestIsCount(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0", true},
		{"12", true},
		{"+3", false},
		{"-1", false},
		{" 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCount(tt.input))
		})
	}
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		info     string
		expected []string
	}{
		{"Benign(1)", []string{"Benign(1)"}},
		{"Benign(1)&Pathogenic(2)", []string{"Benign(1)", "Pathogenic(2)"}},
		{"Pathogenic&_low_penetrance(1)", []string{"Pathogenic&_low_penetrance(1)"}},
		{"Pathogenic(3)&Pathogenic&_low_penetrance(1)", []string{"Pathogenic(3)", "Pathogenic&_low_penetrance(1)"}},
		{"Pathogenic&Benign(1)", []string{"Pathogenic", "Benign(1)"}},
		{".", []string{"."}},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitTokens(tt.info))
		})
	}
}

func TestParseToken(t *testing.T) {
	tok, ok := ParseToken("Likely_benign(12)")
	require.True(t, ok)
	assert.Equal(t, Token{Name: "Likely_benign", Count: "12"}, tok)

	_, ok = ParseToken("Likely_benign")
	assert.False(t, ok)

	_, ok = ParseToken("(3)")
	assert.False(t, ok)
}
