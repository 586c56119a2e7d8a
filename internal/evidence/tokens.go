// Package evidence reads the per-submission counts carried in the info field
// of an annotated ClinVar record, e.g. "Benign(2)&Likely_pathogenic(1)".
package evidence

import (
	"regexp"
	"strings"
)

const (
	tokenSeparator = "&"

	// ClinVar writes the low-penetrance category with an embedded separator,
	// so a naive split yields "Pathogenic" followed by "_low_penetrance(n)".
	lowPenetranceHead = "Pathogenic"
	lowPenetranceTail = "_low_penetrance("
)

var (
	tokenPattern = regexp.MustCompile(`^(.+)\(([^()]*)\)$`)
	countPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Token is one Name(count) entry of an info field. Count is the raw text
// between the parentheses.
type Token struct {
	Name  string
	Count string
}

// SplitTokens splits an info field on "&", re-merging the compound
// "Pathogenic&_low_penetrance(n)" name.
func SplitTokens(info string) []string {
	parts := strings.Split(info, tokenSeparator)
	out := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		if parts[i] == lowPenetranceHead && i+1 < len(parts) && strings.HasPrefix(parts[i+1], lowPenetranceTail) {
			out = append(out, parts[i]+tokenSeparator+parts[i+1])
			i++
			continue
		}
		out = append(out, parts[i])
	}
	return out
}

// ParseToken splits a Name(count) entry. ok is false when the entry does not
// have that shape.
func ParseToken(s string) (Token, bool) {
	m := tokenPattern.FindStringSubmatch(s)
	if m == nil {
		return Token{}, false
	}
	return Token{Name: m[1], Count: m[2]}, true
}

// IsCount reports whether s is written as plain decimal digits.
func IsCount(s string) bool {
	return countPattern.MatchString(s)
}
