// file: internal/services/wish_service_test.go
package services

import (
	"context"
	"testing"

	"wishlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWishRequiresKnownCreator(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.wishService.CreateWish(context.Background(), &CreateWishRequest{
		Title:       "a wish",
		Description: "details",
		CreatedBy:   99,
	})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestCreateWishCreatesStatusRecord(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")

	wish, err := env.wishService.CreateWish(ctx, &CreateWishRequest{
		Title:       "a wish",
		Description: "details",
		CreatedBy:   creator.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, wish.Status)
	assert.Equal(t, models.StatusCreated, wish.Status.Status)
	require.NotNil(t, wish.Creator)
	assert.Equal(t, creator.ID, wish.Creator.ID)
}

func TestListWishesPaginates(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	for i := 0; i < 25; i++ {
		env.seedWish(creator.ID, "")
	}

	page, err := env.wishService.ListWishes(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, int64(25), page.Pagination.TotalItems)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestListWishesByCategoryOldestFirst(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	first := env.seedWish(creator.ID, "Education")
	second := env.seedWish(creator.ID, "Education")
	env.seedWish(creator.ID, "Music")

	page, err := env.wishService.ListWishesByCategory(ctx, "education", 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, first.ID, page.Data[0].ID)
	assert.Equal(t, second.ID, page.Data[1].ID)
}

func TestListWishesByUserNewestFirst(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")
	other := env.seedUser("other@example.com")
	first := env.seedWish(creator.ID, "")
	env.seedWish(other.ID, "")
	second := env.seedWish(creator.ID, "")

	page, err := env.wishService.ListWishesByUser(ctx, creator.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, second.ID, page.Data[0].ID)
	assert.Equal(t, first.ID, page.Data[1].ID)
}

func TestListWishesNearbyUsesDefaultRadius(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	creator := env.seedUser("creator@example.com")

	near := env.seedWish(creator.ID, "")
	nearLat, nearLon := -1.2921, 36.8219
	near.Latitude, near.Longitude = &nearLat, &nearLon

	// Kisumu is roughly 266 km from Nairobi, outside the 10 km default
	far := env.seedWish(creator.ID, "")
	farLat, farLon := -0.0917, 34.7680
	far.Latitude, far.Longitude = &farLat, &farLon

	env.seedWish(creator.ID, "") // no coordinates, always excluded

	page, err := env.wishService.ListWishesNearby(ctx, &NearbyRequest{
		Latitude:  -1.2921,
		Longitude: 36.8219,
		Page:      1,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, near.ID, page.Data[0].ID)

	wide := 300.0
	page, err = env.wishService.ListWishesNearby(ctx, &NearbyRequest{
		Latitude:  -1.2921,
		Longitude: 36.8219,
		RadiusKm:  &wide,
		Page:      1,
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestMergeCategoriesDeduplicatesAndSorts(t *testing.T) {
	merged := MergeCategories([]string{"Education", "Farming"}, []string{"Music", "Farming", ""})

	assert.Contains(t, merged, "Farming")
	assert.Contains(t, merged, "Music")
	assert.Contains(t, merged, "Lifestyle") // from the seed list
	assert.NotContains(t, merged, "")

	counts := make(map[string]int)
	for _, c := range merged {
		counts[c]++
	}
	assert.Equal(t, 1, counts["Farming"])
	assert.Equal(t, 1, counts["Education"])
}
