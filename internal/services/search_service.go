package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/matching"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/reliability"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// SearchResult is a provider matched to a search, with its distance and current score.
type SearchResult struct {
	Provider         models.Provider   `json:"provider"`
	CategoryName     string            `json:"category_name"`
	Distance         int               `json:"distance"`
	Reliability      reliability.Score `json:"reliability"`
	ReliabilityBadge string            `json:"reliability_badge"`
}

// ISearchService defines the interface for provider search.
type ISearchService interface {
	Search(ctx context.Context, postcode, category string) ([]SearchResult, error)
}

type searchService struct {
	store   store.Store
	matcher *matching.Matcher
	now     func() time.Time
}

// NewSearchService creates a new SearchService. A nil matcher uses the default distance policy.
func NewSearchService(st store.Store, matcher *matching.Matcher) ISearchService {
	if matcher == nil {
		matcher = matching.NewMatcher(nil)
	}
	return &searchService{store: st, matcher: matcher, now: time.Now}
}

// ParseSearchCategory maps the category query value to a filter. Empty and
// "ALL" mean no filter.
func ParseSearchCategory(raw string) (*models.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, string(models.CategoryAll)) {
		return nil, nil
	}
	c, err := models.ParseCategory(raw)
	if err != nil {
		return nil, invalid("category", "unknown category %q", raw)
	}
	return &c, nil
}

// Search returns the listed providers that cover postcode, nearest first.
func (s *searchService) Search(ctx context.Context, postcode, category string) ([]SearchResult, error) {
	normalized := matching.Normalize(postcode)
	if normalized == "" {
		return nil, invalid("postcode", "is required")
	}
	filter, err := ParseSearchCategory(category)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.FindListedProviders(ctx, matching.Area(normalized), normalized, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers for %s: %w", normalized, err)
	}

	now := s.now()
	matches := s.matcher.Rank(normalized, candidates, filter)
	results := make([]SearchResult, 0, len(matches))
	for i := range matches {
		score := reliability.ForProvider(&matches[i].Provider, now)
		results = append(results, SearchResult{
			Provider:         matches[i].Provider,
			CategoryName:     matches[i].Provider.Category.DisplayName(),
			Distance:         matches[i].Distance,
			Reliability:      score,
			ReliabilityBadge: reliability.FormatLabel(score.Percentage),
		})
	}
	return results, nil
}
