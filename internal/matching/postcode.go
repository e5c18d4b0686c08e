package matching

import (
	"strings"
	"unicode"
)

// Normalize uppercases a postcode and strips all whitespace. It is idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Area returns the leading two characters of a normalized postcode,
// or the whole string when it is shorter than that.
func Area(normalized string) string {
	runes := []rune(normalized)
	if len(runes) < 2 {
		return normalized
	}
	return string(runes[:2])
}

// DistancePolicy estimates the distance in miles between two postcodes.
// Implementations must be pure and must not fail for non-empty input.
type DistancePolicy interface {
	Distance(from, to string) int
}

// AreaPrefixPolicy is a coarse estimate: postcodes sharing an area are
// SameArea miles apart, everything else is OtherArea miles apart.
type AreaPrefixPolicy struct {
	SameArea  int
	OtherArea int
}

// DefaultPolicy puts same-area postcodes 5 miles apart and others 15.
var DefaultPolicy DistancePolicy = AreaPrefixPolicy{SameArea: 5, OtherArea: 15}

func (p AreaPrefixPolicy) Distance(from, to string) int {
	if Area(Normalize(from)) == Area(Normalize(to)) {
		return p.SameArea
	}
	return p.OtherArea
}

// Matcher decides whether a provider covers a search postcode.
type Matcher struct {
	policy DistancePolicy
}

// NewMatcher returns a Matcher using policy, or DefaultPolicy when policy is nil.
func NewMatcher(policy DistancePolicy) *Matcher {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Matcher{policy: policy}
}

// Eligible reports whether a provider at providerPostcode serving radiusMiles
// covers searchPostcode, along with the estimated distance.
func (m *Matcher) Eligible(searchPostcode, providerPostcode string, radiusMiles int) (bool, int) {
	distance := m.policy.Distance(searchPostcode, providerPostcode)
	return distance <= radiusMiles, distance
}
