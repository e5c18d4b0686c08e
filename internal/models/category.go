package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of trades a provider can register under.
type Category string

const (
	CategoryPlumber          Category = "PLUMBER"
	CategoryElectrician      Category = "ELECTRICIAN"
	CategoryCarpenter        Category = "CARPENTER"
	CategoryPainter          Category = "PAINTER"
	CategoryBuilder          Category = "BUILDER"
	CategoryRoofer           Category = "ROOFER"
	CategoryPlasterer        Category = "PLASTERER"
	CategoryTiler            Category = "TILER"
	CategoryLandscaper       Category = "LANDSCAPER"
	CategoryWindowCleaner    Category = "WINDOW_CLEANER"
	CategoryHandyman         Category = "HANDYMAN"
	CategoryCleaner          Category = "CLEANER"
	CategoryMobileBarber     Category = "MOBILE_BARBER"
	CategoryMobileBeautician Category = "MOBILE_BEAUTICIAN"
	CategoryMassageTherapist Category = "MASSAGE_THERAPIST"
	CategoryPersonalTrainer  Category = "PERSONAL_TRAINER"
	CategoryMobileMechanic   Category = "MOBILE_MECHANIC"
	CategoryITSupport        Category = "IT_SUPPORT"
	CategoryPhotographer     Category = "PHOTOGRAPHER"
	CategoryOther            Category = "OTHER"
)

// CategoryAll is the search sentinel meaning "no category filter".
const CategoryAll = "ALL"

var categories = []Category{
	CategoryPlumber,
	CategoryElectrician,
	CategoryCarpenter,
	CategoryPainter,
	CategoryBuilder,
	CategoryRoofer,
	CategoryPlasterer,
	CategoryTiler,
	CategoryLandscaper,
	CategoryWindowCleaner,
	CategoryHandyman,
	CategoryCleaner,
	CategoryMobileBarber,
	CategoryMobileBeautician,
	CategoryMassageTherapist,
	CategoryPersonalTrainer,
	CategoryMobileMechanic,
	CategoryITSupport,
	CategoryPhotographer,
	CategoryOther,
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory validates s against the closed category set.
// Matching is case-insensitive and surrounding whitespace is ignored.
func ParseCategory(s string) (Category, error) {
	candidate := Category(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName turns WINDOW_CLEANER into "Window Cleaner".
func (c Category) DisplayName() string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
