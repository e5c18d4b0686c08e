package matching

import (
	"sort"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

// Match is a provider that covers the searched postcode.
type Match struct {
	Provider models.Provider
	Distance int
}

// Rank keeps the listed, eligible candidates in the requested category and
// orders them nearest first, newest first within the same distance.
// A nil category matches every category.
func (m *Matcher) Rank(searchPostcode string, candidates []models.Provider, category *models.Category) []Match {
	search := Normalize(searchPostcode)
	matches := make([]Match, 0, len(candidates))
	for _, p := range candidates {
		if !p.Active || !p.Verified {
			continue
		}
		if category != nil && p.Category != *category {
			continue
		}
		ok, distance := m.Eligible(search, p.Postcode, p.ServiceRadius)
		if !ok {
			continue
		}
		matches = append(matches, Match{Provider: p, Distance: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Provider.CreatedAt.After(matches[j].Provider.CreatedAt)
	})
	return matches
}
