package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

func seedProvider(t *testing.T, s *Store, userID, postcode string) *models.Provider {
	t.Helper()
	p := &models.Provider{
		UserID:        userID,
		Postcode:      postcode,
		ServiceRadius: 10,
		Category:      models.CategoryPlumber,
		Active:        true,
		Verified:      true,
		FreeQuota:     3,
	}
	require.NoError(t, s.CreateProvider(context.Background(), p))
	return p
}

func TestUpdateProvider_ConcurrentIncrementsAreNotLost(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "user-1", "SW1A1AA")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateProvider(context.Background(), p.ID, func(p *models.Provider) error {
				p.EnquiriesReceived++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetProvider(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.EnquiriesReceived)
	assert.Equal(t, int64(101), got.Version)
}

func TestUpdateProvider_MutatorErrorLeavesStateAlone(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "user-1", "SW1A1AA")
	boom := errors.New("boom")

	_, err := s.UpdateProvider(context.Background(), p.ID, func(p *models.Provider) error {
		p.EnquiriesReceived = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.GetProvider(context.Background(), p.ID)
	assert.Equal(t, 0, got.EnquiriesReceived)
}

func TestUpdateProvider_NotFound(t *testing.T) {
	_, err := New().UpdateProvider(context.Background(), "nope", func(*models.Provider) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "user-1", "SW1A1AA")
	boom := errors.New("boom")

	err := s.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if _, err := s.UpdateProvider(ctx, p.ID, func(p *models.Provider) error {
			p.EnquiriesReceived++
			return nil
		}); err != nil {
			return err
		}
		if err := s.CreateEnquiry(ctx, &models.Enquiry{ProviderID: p.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.GetProvider(context.Background(), p.ID)
	assert.Equal(t, 0, got.EnquiriesReceived)
	list, _ := s.ListEnquiriesByProvider(context.Background(), p.ID)
	assert.Empty(t, list)
}

func TestRunInTransaction_Commits(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "user-1", "SW1A1AA")

	err := s.RunInTransaction(context.Background(), func(ctx context.Context) error {
		// Nested calls join the outer transaction.
		return s.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.CreateEnquiry(ctx, &models.Enquiry{ProviderID: p.ID, ClientID: "client-1"})
		})
	})
	require.NoError(t, err)

	list, _ := s.ListEnquiriesByClient(context.Background(), "client-1")
	assert.Len(t, list, 1)
}

func TestFindListedProviders(t *testing.T) {
	s := New()
	near := seedProvider(t, s, "u1", "SW1A1AA")
	seedProvider(t, s, "u2", "EC1A1BB")
	hidden := seedProvider(t, s, "u3", "SW9 9ZZ")
	_, err := s.UpdateProvider(context.Background(), hidden.ID, func(p *models.Provider) error {
		p.Active = false
		return nil
	})
	require.NoError(t, err)

	got, err := s.FindListedProviders(context.Background(), "SW", "SW1A2AA", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, near.ID, got[0].ID)

	roofer := models.CategoryRoofer
	got, err = s.FindListedProviders(context.Background(), "SW", "SW1A2AA", &roofer)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListProviders_NewestFirst(t *testing.T) {
	s := New()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	first := seedProvider(t, s, "u1", "SW1A1AA")
	second := seedProvider(t, s, "u2", "SW1A1AB")

	got, err := s.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestListLapsedSubscriptions(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "u1", "SW1A1AA")
	seedProvider(t, s, "u2", "SW1A1AB")
	ended := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.UpdateProvider(context.Background(), p.ID, func(p *models.Provider) error {
		p.SubscriptionActive = true
		p.SubscriptionEndsAt = &ended
		return nil
	})
	require.NoError(t, err)

	got, err := s.ListLapsedSubscriptions(context.Background(), ended.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)

	got, _ = s.ListLapsedSubscriptions(context.Background(), ended.Add(-time.Hour))
	assert.Empty(t, got)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateUser(context.Background(), &models.User{Email: "A@Example.com"}))
	err := s.CreateUser(context.Background(), &models.User{Email: "a@example.com "})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	u, err := s.GetUserByEmail(context.Background(), "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestCreateProvider_OnePerUser(t *testing.T) {
	s := New()
	seedProvider(t, s, "u1", "SW1A1AA")
	err := s.CreateProvider(context.Background(), &models.Provider{UserID: "u1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	p := seedProvider(t, s, "u1", "SW1A1AA")
	got, _ := s.GetProvider(context.Background(), p.ID)
	got.EnquiriesReceived = 42

	again, _ := s.GetProvider(context.Background(), p.ID)
	assert.Equal(t, 0, again.EnquiriesReceived)
}
