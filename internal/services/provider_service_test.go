package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)

	name := "Pipe Dreams Ltd"
	postcode := "ec1a 1bb"
	radius := 25
	category := models.Category("roofer")
	updated, err := env.providers.UpdateProfile(context.Background(), p.UserID, &models.ProviderUpdate{
		BusinessName:  &name,
		Postcode:      &postcode,
		ServiceRadius: &radius,
		Category:      &category,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.BusinessName)
	assert.Equal(t, "EC1A1BB", updated.Postcode)
	assert.Equal(t, 25, updated.ServiceRadius)
	assert.Equal(t, models.CategoryRoofer, updated.Category)
	assert.Equal(t, p.Description, updated.Description, "unset fields are kept")
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)

	zero := 0
	short := "too short"
	for name, upd := range map[string]*models.ProviderUpdate{
		"radius":      {ServiceRadius: &zero},
		"description": {Description: &short},
		"nil":         nil,
	} {
		_, err := env.providers.UpdateProfile(context.Background(), p.UserID, upd)
		assert.True(t, IsValidation(err), name)
	}
	assert.Equal(t, 10, env.provider(t, p.ID).ServiceRadius)
}

func TestUpdateProfile_NoProfile(t *testing.T) {
	env := newTestEnv(t)
	on := true
	_, err := env.providers.UpdateProfile(context.Background(), "client-user", &models.ProviderUpdate{Active: &on})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublic_HidesUnverified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryWindowCleaner)

	v, err := env.providers.GetPublic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Window Cleaner", v.CategoryName)

	_, err = env.providers.SetVerified(ctx, p.ID, false)
	require.NoError(t, err)
	_, err = env.providers.GetPublic(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	own, err := env.providers.GetByUser(ctx, p.UserID)
	require.NoError(t, err)
	assert.False(t, own.Verified)
}

func TestScoreAndListAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)
	_, err := env.store.UpdateProvider(ctx, p.ID, func(p *models.Provider) error {
		p.EnquiriesReceived = 10
		p.EnquiriesResponded = 10
		p.EnquiriesAccepted = 10
		return nil
	})
	require.NoError(t, err)

	score, err := env.providers.Score(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, score.Percentage)

	all, err := env.providers.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, score, all[0].Reliability)
	assert.Equal(t, "95% Reliable", all[0].ReliabilityBadge)

	_, err = env.providers.Score(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhotoUploadFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)
	key := "providers/" + p.ID + "/photos/abc_van.jpg"

	env.storage.On("GeneratePresignedPutURL", mock.Anything, p.ID, "van.jpg", "image/jpeg").
		Return("https://bucket.example.com/put", key, nil).Once()
	upload, err := env.providers.RequestPhotoUpload(ctx, p.UserID, "van.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, key, upload.Key)

	_, err = env.providers.RequestPhotoUpload(ctx, p.UserID, "notes.txt", "text/plain")
	assert.True(t, IsValidation(err))

	err = env.providers.ConfirmPhoto(ctx, p.UserID, "providers/someone-else/photos/x.jpg")
	assert.True(t, IsValidation(err))

	env.notifier.On("PhotoUploaded", mock.Anything, p.ID, key).Return(nil).Once()
	require.NoError(t, env.providers.ConfirmPhoto(ctx, p.UserID, key))
	assert.Empty(t, env.provider(t, p.ID).PhotoKey, "the key is recorded after processing")

	require.NoError(t, env.providers.SetPhotoKey(ctx, p.ID, key))
	assert.Equal(t, key, env.provider(t, p.ID).PhotoKey)

	env.storage.AssertExpectations(t)
	env.notifier.AssertExpectations(t)
}

func TestPhotoUpload_QueueFailure(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)
	key := "providers/" + p.ID + "/photos/abc_van.jpg"
	env.notifier.On("PhotoUploaded", mock.Anything, p.ID, key).Return(errors.New("queue down"))

	err := env.providers.ConfirmPhoto(context.Background(), p.UserID, key)
	assert.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestPhotoUpload_WithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTrade(t, "SW1A1AA", 10, models.CategoryPlumber)
	svc := NewProviderService(env.store, nil, env.notifier)

	_, err := svc.RequestPhotoUpload(context.Background(), p.UserID, "van.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, svc.ConfirmPhoto(context.Background(), p.UserID, "k"), ErrStorageUnavailable)
}
