// file: internal/services/status_service_test.go
package services

import (
	"context"
	"testing"

	"wishlink/internal/config"
	"wishlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureStatusIsIdempotent(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	user := env.seedUser("seeker@example.com")
	wish := env.seedWish(user.ID, "")

	first, err := env.statusService.EnsureStatus(ctx, models.KindWish, wish.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, first.Status)

	second, err := env.statusService.EnsureStatus(ctx, models.KindWish, wish.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StatusCreated, second.Status)
}

func TestEnsureStatusUnknownRequest(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.statusService.EnsureStatus(context.Background(), models.KindWish, 999)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestPickMovesRequestToInProgress(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	picker := env.seedUser("picker@example.com")
	wish := env.seedWish(creator.ID, "")

	record, err := env.statusService.Pick(ctx, &PickRequest{
		Kind:      models.KindWish,
		RequestID: wish.ID,
		UserID:    picker.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, record.Status)
	assert.True(t, wish.IsPicked)
}

func TestPickRejectsSecondPickBySameUser(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	picker := env.seedUser("picker@example.com")
	wish := env.seedWish(creator.ID, "")

	req := &PickRequest{Kind: models.KindWish, RequestID: wish.ID, UserID: picker.ID}

	_, err := env.statusService.Pick(ctx, req)
	require.NoError(t, err)

	_, err = env.statusService.Pick(ctx, req)
	require.Error(t, err)
	assert.True(t, HasBusinessCode(err, CodeAlreadyPicked))
	assert.Equal(t, 400, GetServiceError(err).GetStatusCode())
}

func TestPickAllowsDistinctUsers(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	alice := env.seedUser("alice@example.com")
	bob := env.seedUser("bob@example.com")
	speech := env.seedSpeech(creator.ID)

	_, err := env.statusService.Pick(ctx, &PickRequest{Kind: models.KindSpeech, RequestID: speech.ID, UserID: alice.ID})
	require.NoError(t, err)
	_, err = env.statusService.Pick(ctx, &PickRequest{Kind: models.KindSpeech, RequestID: speech.ID, UserID: bob.ID})
	require.NoError(t, err)

	record, err := env.statusService.GetStatus(ctx, models.KindSpeech, speech.ID)
	require.NoError(t, err)
	require.Len(t, record.PickedBy, 2)
	assert.Equal(t, alice.ID, record.PickedBy[0].ID)
	assert.Equal(t, bob.ID, record.PickedBy[1].ID)
}

func TestPickUnknownUser(t *testing.T) {
	env := newTestEnv(nil)

	creator := env.seedUser("creator@example.com")
	wish := env.seedWish(creator.ID, "")

	_, err := env.statusService.Pick(context.Background(), &PickRequest{
		Kind:      models.KindWish,
		RequestID: wish.ID,
		UserID:    42,
	})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestCompleteRejectsCrossFamilyFulfillment(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	helper := env.seedUser("helper@example.com")
	wish := env.seedWish(creator.ID, "")
	speech := env.seedSpeech(creator.ID)

	submitted, err := env.fulfillmentService.Submit(ctx, &SubmitFulfillmentRequest{
		SpeechID: &speech.ID,
		UserID:   helper.ID,
		URLs:     []string{"https://example.com/proof"},
	})
	require.NoError(t, err)

	_, err = env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: submitted.ID,
	})
	require.Error(t, err)
	assert.True(t, HasBusinessCode(err, CodeFulfillmentMismatch))
	assert.Equal(t, 400, GetServiceError(err).GetStatusCode())
}

func TestCompleteOverwritesSelection(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	helper := env.seedUser("helper@example.com")
	wish := env.seedWish(creator.ID, "")

	first, err := env.fulfillmentService.Submit(ctx, &SubmitFulfillmentRequest{
		WishID: &wish.ID,
		UserID: helper.ID,
		URLs:   []string{"https://example.com/first"},
	})
	require.NoError(t, err)

	second, err := env.fulfillmentService.Submit(ctx, &SubmitFulfillmentRequest{
		WishID: &wish.ID,
		UserID: helper.ID,
		URLs:   []string{"https://example.com/second"},
	})
	require.NoError(t, err)

	record, err := env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, wish.SelectedFulfillment)
	assert.Equal(t, first.ID, *wish.SelectedFulfillment)

	record, err = env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Equal(t, second.ID, *wish.SelectedFulfillment)
}

func TestCompleteRequiresPickWhenConfigured(t *testing.T) {
	env := newTestEnv(&config.StatusConfig{RequirePickBeforeComplete: true})
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	helper := env.seedUser("helper@example.com")
	wish := env.seedWish(creator.ID, "")

	submitted, err := env.fulfillmentService.Submit(ctx, &SubmitFulfillmentRequest{
		WishID: &wish.ID,
		UserID: helper.ID,
		URLs:   []string{"https://example.com/proof"},
	})
	require.NoError(t, err)

	_, err = env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: submitted.ID,
	})
	require.Error(t, err)
	assert.True(t, HasBusinessCode(err, CodeRequestNotPicked))

	_, err = env.statusService.Pick(ctx, &PickRequest{Kind: models.KindWish, RequestID: wish.ID, UserID: helper.ID})
	require.NoError(t, err)

	record, err := env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: submitted.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	helper := env.seedUser("helper@example.com")

	wish, err := env.wishService.CreateWish(ctx, &CreateWishRequest{
		Title:       "school supplies",
		Description: "notebooks for thirty pupils",
		CreatedBy:   creator.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, wish.Status)
	assert.Equal(t, models.StatusCreated, wish.Status.Status)

	_, err = env.statusService.Pick(ctx, &PickRequest{
		Kind:      models.KindWish,
		RequestID: wish.ID,
		UserID:    helper.ID,
	})
	require.NoError(t, err)

	submitted, err := env.fulfillmentService.Submit(ctx, &SubmitFulfillmentRequest{
		WishID: &wish.ID,
		UserID: helper.ID,
		URLs:   []string{"https://example.com/receipt"},
	})
	require.NoError(t, err)

	_, err = env.statusService.Complete(ctx, &CompleteRequest{
		Kind:          models.KindWish,
		RequestID:     wish.ID,
		FulfillmentID: submitted.ID,
	})
	require.NoError(t, err)

	detail, err := env.wishService.GetWishByID(ctx, wish.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Status)
	assert.Equal(t, models.StatusCompleted, detail.Status.Status)
	require.NotNil(t, detail.SelectedFulfillment)
	assert.Equal(t, submitted.ID, *detail.SelectedFulfillment)
	require.Len(t, detail.PickedBy, 1)
	assert.Equal(t, helper.ID, detail.PickedBy[0].ID)
}
