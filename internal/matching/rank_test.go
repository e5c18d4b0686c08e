package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

func provider(id, postcode string, radius int, category models.Category, created time.Time) models.Provider {
	return models.Provider{
		Base:          models.Base{ID: id},
		Postcode:      postcode,
		ServiceRadius: radius,
		Category:      category,
		Active:        true,
		Verified:      true,
		CreatedAt:     created,
	}
}

func TestRank_OrdersByDistanceThenNewest(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []models.Provider{
		provider("far", "EC1A1BB", 20, models.CategoryPlumber, base.Add(3*time.Hour)),
		provider("old-near", "SW1A1AA", 10, models.CategoryPlumber, base),
		provider("new-near", "SW9 9ZZ", 10, models.CategoryPlumber, base.Add(time.Hour)),
	}

	got := NewMatcher(nil).Rank("sw1a 2aa", candidates, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "new-near", got[0].Provider.ID)
	assert.Equal(t, "old-near", got[1].Provider.ID)
	assert.Equal(t, "far", got[2].Provider.ID)
	assert.Equal(t, 5, got[0].Distance)
	assert.Equal(t, 15, got[2].Distance)
}

func TestRank_FiltersOutOfRadiusInactiveUnverified(t *testing.T) {
	now := time.Now()
	inactive := provider("inactive", "SW1A1AA", 10, models.CategoryPlumber, now)
	inactive.Active = false
	unverified := provider("unverified", "SW1A1AA", 10, models.CategoryPlumber, now)
	unverified.Verified = false
	candidates := []models.Provider{
		provider("too-far", "EC1A1BB", 10, models.CategoryPlumber, now),
		inactive,
		unverified,
		provider("ok", "SW1A1AA", 10, models.CategoryPlumber, now),
	}

	got := NewMatcher(nil).Rank("SW1A2AA", candidates, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Provider.ID)
	for _, m := range got {
		assert.LessOrEqual(t, m.Distance, m.Provider.ServiceRadius)
	}
}

func TestRank_CategoryFilter(t *testing.T) {
	now := time.Now()
	candidates := []models.Provider{
		provider("plumber", "SW1A1AA", 10, models.CategoryPlumber, now),
		provider("roofer", "SW1A1AA", 10, models.CategoryRoofer, now),
	}
	roofer := models.CategoryRoofer

	got := NewMatcher(nil).Rank("SW1A2AA", candidates, &roofer)
	require.Len(t, got, 1)
	assert.Equal(t, "roofer", got[0].Provider.ID)

	assert.Len(t, NewMatcher(nil).Rank("SW1A2AA", candidates, nil), 2)
}

func TestRank_Empty(t *testing.T) {
	got := NewMatcher(nil).Rank("SW1A2AA", nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
